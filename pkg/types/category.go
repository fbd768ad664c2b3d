// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category is one entry of the portal's category catalog.
type Category struct {
	ID           int64  `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Slug         string `json:"slug" yaml:"slug"`
	DisplayOrder int    `json:"display_order" yaml:"display_order"`
}
