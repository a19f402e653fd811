package core_test

import (
	"fmt"

	"github.com/redactyl/imgstrip/pkg/core"
)

// ExampleExtract pulls JPEG payloads out of a document with trailing commas.
func ExampleExtract() {
	out := core.Extract(`{"photo":{"src":"/9j/4AAQ"},"tags":["a",],}`, core.Options{})
	fmt.Println(out.Status.Message)
	for _, it := range out.Items {
		fmt.Println(it.ID, it.Value)
	}
	fmt.Println(out.Cleaned)
	// Output:
	// Extracted 1 unique payload.
	// 0 /9j/4AAQ
	// {
	//   "photo": {
	//     "src": ""
	//   },
	//   "tags": [
	//     "a"
	//   ]
	// }
}

// ExampleExtract_customMatcher looks for PNG payloads under a different key.
func ExampleExtract_customMatcher() {
	m := core.Matcher{Keys: []string{"thumbnail"}, Prefix: "iVBOR"}
	out := core.Extract(`{"thumbnail":"iVBORw0KGgo","src":"/9j/x"}`, core.Options{Matcher: &m})
	for _, l := range out.Matches {
		fmt.Println(l.Path)
	}
	// Output:
	// /thumbnail
}
