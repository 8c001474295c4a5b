// ABOUTME: Preset service client package
// ABOUTME: Preset descriptors and the HTTP client used by the sampler
// Package presets describes presets and talks to the preset service.
//
// Sample URLs are always rebuilt from the preset key and the sample's file
// name, so a preset listing may use relative paths like "./808/kick.wav".
package presets
