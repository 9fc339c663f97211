// Package archive moves a complete catalog between machines as a single
// zip file: a manifest with every entity row plus the cached cover-art
// files. Import replaces the target catalog wholesale and remaps row ids,
// so track links stay intact even though the destination store assigns
// fresh ids.
package archive
