package etag_test

import (
	"fmt"

	"github.com/jkeller-io/appweave/etag"
)

func Example() {
	body := []byte("hello world")

	fmt.Println(etag.Of(body))
	fmt.Println(etag.Weak(body))

	// Output:
	// "b-Kq5sNclPz7QV2+lfQIuc6R7oRu0"
	// W/"b-Kq5sNclPz7QV2+lfQIuc6R7oRu0"
}

func ExampleCompile() {
	gen, err := etag.Compile("strong")
	if err != nil {
		fmt.Println("compile error:", err)
		return
	}

	tag := gen([]byte("hello world"))
	fmt.Println(tag)
	fmt.Println(etag.Match(tag, tag))

	// Output:
	// "b-Kq5sNclPz7QV2+lfQIuc6R7oRu0"
	// true
}
