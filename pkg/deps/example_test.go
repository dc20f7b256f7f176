package deps_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/otsaudit/pkg/deps"
)

func ExampleFlatten() {
	guava := &deps.Node{Coordinate: deps.Coordinate{Group: "com.google.guava", Name: "guava", Version: "33.0.0-jre"}}
	failure := &deps.Node{Coordinate: deps.Coordinate{Group: "com.google.guava", Name: "failureaccess", Version: "1.0.2"}}
	guava.Children = []*deps.Node{failure}
	internal := &deps.Node{Coordinate: deps.Coordinate{Group: "com.example", Name: "shared-model", Version: "1.4"}}

	set := deps.Flatten(context.Background(), []*deps.Node{guava, internal}, deps.Exclusions{
		OwnGroup: "com.example",
		RootName: "my-app",
	}, deps.FlattenOptions{})

	for _, a := range set.All() {
		fmt.Println(a.Coordinate)
	}
	// Output:
	// com.google.guava:failureaccess:1.0.2
	// com.google.guava:guava:33.0.0-jre
}
