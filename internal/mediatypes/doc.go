// Package mediatypes defines the fixed tables of supported image and video
// file extensions and their classification into media kinds.
//
// The tables are part of the on-disk cache compatibility contract: only
// files matching these extensions receive thumbnails.
package mediatypes
