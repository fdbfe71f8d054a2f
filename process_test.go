package main

import (
	"testing"

	"github.com/ccollins476ad/redscrape/extract"
	"github.com/stretchr/testify/assert"
)

func TestDescriptorFilename(t *testing.T) {
	cases := []struct {
		name string
		d    extract.Descriptor
		url  string
		want string
	}{
		{
			"post and media id",
			extract.Descriptor{ID: "p1", MediaID: "abc", Extension: "jpg"},
			"https://i.redd.it/abc.jpg",
			"p1_abc.jpg",
		},
		{
			"no media id",
			extract.Descriptor{ID: "p1", Extension: "png"},
			"https://example.com/x.png",
			"p1.png",
		},
		{
			"extension inferred from url",
			extract.Descriptor{ID: "p1", MediaID: "abc"},
			"https://i.redd.it/abc.GIF?x=1",
			"p1_abc.gif",
		},
		{
			"media id equals post id",
			extract.Descriptor{ID: "p1", MediaID: "p1", Extension: "jpg"},
			"",
			"p1.jpg",
		},
		{
			"no identity",
			extract.Descriptor{},
			"https://example.com/x.png",
			"",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, descriptorFilename(c.d, c.url))
		})
	}
}
