// Package render produces thumbnail PNGs from image and video sources.
//
// Images are decoded and resized in-process with the imaging library;
// videos delegate to an external ffmpeg process that extracts a single
// scaled frame. All failures are converted into typed Outcome values at
// this boundary; nothing propagates to callers as an error or panic.
package render
