package web

import (
	"strings"

	"golang.org/x/net/html"
)

// ForEachNode applies a function to the given node and each of its
// descendants.
func ForEachNode(node *html.Node, fn func(n *html.Node) error) error {
	var iter func(n *html.Node) error
	iter = func(n *html.Node) error {
		err := fn(n)
		if err != nil {
			return err
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			err := iter(c)
			if err != nil {
				return err
			}
		}

		return nil
	}

	return iter(node)
}

// FirstAttr returns the value of the named attribute on the first descendant
// element with the given tag. It returns the empty string if no such element
// or attribute exists.
func FirstAttr(node *html.Node, tag string, attr string) string {
	var val string

	ForEachNode(node, func(n *html.Node) error {
		if val != "" || n.Type != html.ElementNode || n.Data != tag {
			return nil
		}
		for _, a := range n.Attr {
			if a.Key == attr {
				val = a.Val
				break
			}
		}
		return nil
	})

	return val
}

// IframeSrc parses an html fragment and returns the src url of the first
// iframe it contains. It returns the empty string if the fragment does not
// parse or contains no iframe. Reddit embeds third-party media as iframe
// fragments in the media_embed field.
func IframeSrc(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return FirstAttr(doc, "iframe", "src")
}

// EmbeddedImageURLs returns a slice of all image URLs embedded in the given
// html document.
func EmbeddedImageURLs(doc *html.Node) []string {
	var urls []string

	ForEachNode(doc, func(n *html.Node) error {
		if n.Type != html.ElementNode || n.Data != "img" {
			return nil
		}
		for _, a := range n.Attr {
			if a.Key == "src" {
				urls = append(urls, a.Val)
				break
			}
		}
		return nil
	})

	return urls
}
