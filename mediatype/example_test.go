package mediatype_test

import (
	"fmt"

	"github.com/jkeller-io/appweave/mediatype"
)

func ExampleNormalize() {
	fromExt := mediatype.Normalize("json")
	fmt.Println(fromExt.Value)

	accepted := mediatype.Normalize("text/html; q=0.8; level=1")
	fmt.Println(accepted.Value, accepted.Quality, accepted.Params["level"])

	// Output:
	// application/json
	// text/html 0.8 1
}

func ExampleSetCharset() {
	fmt.Println(mediatype.SetCharset("text/html", "utf-8"))
	// Output: text/html; charset=utf-8
}
