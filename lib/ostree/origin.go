package ostree

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Well-known origin groups and keys.
const (
	OriginGroup             = "origin"
	OriginContainerImageKey = "container-image-reference"
	OriginTransientGroup    = "libostree-transient"
	OriginPinnedKey         = "pinned"
	OriginBootcGroup        = "bootc"
	OriginBootcBackendKey   = "backend"
)

// keyfileOptions parse GLib keyfile syntax: '=' only, '#' comments on their own line.
var keyfileOptions = ini.LoadOptions{
	KeyValueDelimiters:      "=",
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
}

// Origin is the parsed origin keyfile of a deployment
type Origin struct {
	file *ini.File
}

// ParseOrigin parses origin keyfile contents.
func ParseOrigin(data []byte) (*Origin, error) {
	file, err := ini.LoadSources(keyfileOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse origin: %w", ErrParse, err)
	}
	return &Origin{file: file}, nil
}

// HasGroup reports whether the origin contains the group.
func (o *Origin) HasGroup(group string) bool {
	return o.file.HasSection(group)
}

// HasKey reports whether group contains key.
func (o *Origin) HasKey(group, key string) bool {
	section, err := o.file.GetSection(group)
	if err != nil {
		return false
	}
	return section.HasKey(key)
}

// OptionalString returns the value of group.key, if present.
func (o *Origin) OptionalString(group, key string) (string, bool) {
	if !o.HasKey(group, key) {
		return "", false
	}
	return o.file.Section(group).Key(key).String(), true
}

// OptionalBool returns the boolean value of group.key, false when absent.
func (o *Origin) OptionalBool(group, key string) (bool, error) {
	if !o.HasKey(group, key) {
		return false, nil
	}
	v, err := o.file.Section(group).Key(key).Bool()
	if err != nil {
		return false, fmt.Errorf("%w: %s.%s: %w", ErrParse, group, key, err)
	}
	return v, nil
}
