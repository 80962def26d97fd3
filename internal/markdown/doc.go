// Package markdown renders page bodies to HTML with goldmark and extracts their
// link destinations.
package markdown
