// Package assets provides scratchcard.AssetLoader implementations.
//
// [Static] serves images already in memory and completes synchronously.
// [Files] decodes PNG, JPEG and WebP files from an fs.FS on background
// goroutines and hands results back to the UI goroutine through a [Poster],
// normally the host's *scratchcard.FrameLoop. Decoded images are cached for
// the lifetime of the loader only.
//
// [Demo] draws a three-icon palette procedurally, for hosts and tests that
// ship no artwork.
package assets
