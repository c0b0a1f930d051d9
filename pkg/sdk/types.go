package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a backend identifier. The backend emits numeric ids; strings are accepted too.
type ID string

// UnmarshalJSON accepts JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Categories holds a recipe's category keys. The backend sends either a single
// key or a list of keys; both decode into a list.
type Categories []string

// UnmarshalJSON accepts a string, an array of strings or null.
func (c *Categories) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*c = nil
			return nil
		}
		*c = Categories{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("invalid category %s: %w", data, err)
	}
	*c = list
	return nil
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

// Recipe is a catalog entry.
type Recipe struct {
	ID           ID           `json:"id,omitempty"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Category     Categories   `json:"category,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	Servings     int          `json:"servings,omitempty"`
	Duration     int          `json:"duration,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
	Instructions []string     `json:"instructions,omitempty"`
	OwnerID      ID           `json:"ownerId,omitempty"`
}

// RecipeFilter narrows ListRecipes.
type RecipeFilter struct {
	Name string
}

// MealPlanEntry schedules a recipe for a day and meal slot.
type MealPlanEntry struct {
	ID       ID     `json:"id,omitempty"`
	RecipeID ID     `json:"productId"`
	Date     string `json:"date"`
	Meal     string `json:"meal,omitempty"`
	Servings int    `json:"servings,omitempty"`
}

// ShoppingCheck records whether a shopping list item is ticked off.
type ShoppingCheck struct {
	Key     string `json:"key"`
	Checked bool   `json:"checked"`
}
