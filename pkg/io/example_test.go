package io_test

import (
	"fmt"

	"github.com/matzehuels/mermaid/pkg/diagram"
	"github.com/matzehuels/mermaid/pkg/io"
)

func ExampleDecode() {
	doc := []byte(`
title: Pets
show_data: true
data:
  - {label: Dogs, value: 386}
  - {label: Cats, value: 85}
`)
	d, err := io.Decode(diagram.KindPie, doc, io.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(diagram.BuildScript(d))
	// Output:
	// pie showData
	// title "Pets"
	// "Dogs" : 386
	// "Cats" : 85
}

func ExampleParseLinkSpec() {
	l, _ := io.ParseLinkSpec("api->db:dotted:query")
	fmt.Println(l.From, l.Token(), l.To, l.Label)
	// Output:
	// api -.-> db query
}
