package helper

import "github.com/fatih/color"

// Style wraps text in the ANSI sequences for the given attributes.
// Colouring is forced on so the result does not depend on the terminal.
func Style(text string, attrs ...color.Attribute) string {
	if len(attrs) == 0 {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}
