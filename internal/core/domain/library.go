package domain

import (
	"fmt"
	"strings"
)

const (
	DefaultRootPath     = "/Game/FXLib/"
	DefaultCategoryName = "Default"
)

// Category groups registered effects under a name and an icon
type Category struct {
	Name   string        `yaml:"name"`
	Icon   AssetHandle   `yaml:"icon,omitempty"`
	Assets []AssetHandle `yaml:"assets"`
}

// HasAsset reports whether h is registered in the category
func (c *Category) HasAsset(h AssetHandle) bool {
	for _, a := range c.Assets {
		if a == h {
			return true
		}
	}
	return false
}

// Library is the ordered set of categories
type Library struct {
	Categories []Category `yaml:"categories"`
}

// DefaultLibrary returns the library a fresh workspace starts with
func DefaultLibrary() *Library {
	lib := &Library{}
	for _, name := range []string{"Fire", "Water", "Smoke", "Electric"} {
		lib.AddCategory(name, DefaultIcon(name))
	}
	return lib
}

// DefaultIcon returns the conventional icon path of a category
func DefaultIcon(name string) AssetHandle {
	return ParseHandle(fmt.Sprintf("/Game/UI/Icons/%s.%s", name, name))
}

// FindCategory returns the category with the given name
func (l *Library) FindCategory(name string) *Category {
	for i := range l.Categories {
		if l.Categories[i].Name == name {
			return &l.Categories[i]
		}
	}
	return nil
}

// AddCategory returns the named category, creating it when absent
func (l *Library) AddCategory(name string, icon AssetHandle) *Category {
	if c := l.FindCategory(name); c != nil {
		return c
	}
	l.Categories = append(l.Categories, Category{
		Name:   name,
		Icon:   icon,
		Assets: []AssetHandle{},
	})
	return &l.Categories[len(l.Categories)-1]
}

// RemoveCategory deletes the named category
func (l *Library) RemoveCategory(name string) bool {
	for i := range l.Categories {
		if l.Categories[i].Name == name {
			l.Categories = append(l.Categories[:i], l.Categories[i+1:]...)
			return true
		}
	}
	return false
}

// RenameCategory changes a category name, keeping its assets
func (l *Library) RenameCategory(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	c := l.FindCategory(oldName)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, oldName)
	}
	if oldName != newName && l.FindCategory(newName) != nil {
		return fmt.Errorf("%w: %s", ErrCategoryExists, newName)
	}
	c.Name = newName
	return nil
}

// AddAsset registers h in the named category; duplicates are ignored
func (l *Library) AddAsset(category string, h AssetHandle) error {
	if !h.IsValid() {
		return ErrInvalidHandle
	}
	c := l.FindCategory(category)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	if !c.HasAsset(h) {
		c.Assets = append(c.Assets, h)
	}
	return nil
}

// RemoveAsset unregisters h from the named category and returns how many
// entries were removed
func (l *Library) RemoveAsset(category string, h AssetHandle) int {
	c := l.FindCategory(category)
	if c == nil {
		return 0
	}
	kept := c.Assets[:0]
	removed := 0
	for _, a := range c.Assets {
		if a == h {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	c.Assets = kept
	return removed
}

// CleanupInvalidAssets drops every asset for which valid returns false
func (l *Library) CleanupInvalidAssets(valid func(AssetHandle) bool) int {
	removed := 0
	for i := range l.Categories {
		c := &l.Categories[i]
		kept := c.Assets[:0]
		for _, a := range c.Assets {
			if a.IsValid() && valid(a) {
				kept = append(kept, a)
				continue
			}
			removed++
		}
		c.Assets = kept
	}
	return removed
}

// CleanupEmptyCategories drops categories without assets
func (l *Library) CleanupEmptyCategories() int {
	kept := l.Categories[:0]
	removed := 0
	for _, c := range l.Categories {
		if len(c.Assets) == 0 {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	l.Categories = kept
	return removed
}

// Names lists category names in order
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.Categories))
	for _, c := range l.Categories {
		names = append(names, c.Name)
	}
	return names
}

// TotalAssets counts registered assets across categories
func (l *Library) TotalAssets() int {
	total := 0
	for _, c := range l.Categories {
		total += len(c.Assets)
	}
	return total
}
