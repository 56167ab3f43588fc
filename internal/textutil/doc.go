// Package textutil provides text helpers shared by the classifier, the path
// template engine, and the library reader.
//
// The primary use cases are:
//   - Decoding raw byte filenames into NFC-normalized text
//   - Sanitizing template field values so they stay within one path segment
//   - Case and transliteration helpers backing template functions
package textutil
