package model

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#\S+`)

// ExtractHashtags returns every #-prefixed token of text in order of appearance, case preserved.
func ExtractHashtags(text string) []string {
	return hashtagPattern.FindAllString(text, -1)
}

// JoinHashtags renders hashtags the way the Description column shows them.
func JoinHashtags(tags []string) string {
	return strings.Join(tags, ", ")
}
