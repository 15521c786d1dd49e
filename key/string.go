// SPDX-License-Identifier: MIT

package key

import "strings"

// StringKey is the owned-string topic-key representation: an exact copy
// of the topic, compared by value, with no length restriction.
type StringKey string

// String returns the topic this key was built from.
func (s StringKey) String() string {
	return string(s)
}

// StringCodec implements Codec[StringKey].
type StringCodec struct{}

// Encode copies topic into a StringKey. Unlike PackedCodec.Encode, this
// never fails: the string representation has no length limit.
func (StringCodec) Encode(topic string) (StringKey, error) {
	return StringKey(topic), nil
}

// Full returns a matcher selecting the candidate that exactly equals
// target.
func (StringCodec) Full(target StringKey) Matcher[StringKey] {
	return func(candidate StringKey) bool {
		return candidate == target
	}
}

// Prefix returns a matcher selecting any candidate whose topic begins
// with target's topic bytes.
func (StringCodec) Prefix(target StringKey) Matcher[StringKey] {
	return func(candidate StringKey) bool {
		return strings.HasPrefix(string(candidate), string(target))
	}
}
