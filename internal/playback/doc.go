// Package playback plays a sound file through an ordered chain of
// providers. Each provider wraps one host capability (an audio device,
// an external player command, or the beep speaker); the chain tries them
// in order and stops at the first one that plays the file.
package playback
