package recipe

import (
	"math"
	"strings"

	"recipe-box/internal/pkg/common"
)

// isValidString 檢查字串去除前後空白後是否非空
func isValidString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// isValidIngredient 檢查單一食材：名稱與單位非空、數量為有限正數
func isValidIngredient(ing Ingredient) bool {
	return isValidString(ing.Name) &&
		!math.IsNaN(ing.Quantity) && !math.IsInf(ing.Quantity, 0) && ing.Quantity > 0 &&
		isValidString(ing.Unit)
}

// ValidateRecipe 依序檢查候選食譜，遇到第一個錯誤即返回。
// 純函式，無副作用。
func ValidateRecipe(r *Recipe) error {
	if r == nil {
		return common.NewValidationError("Recipe required")
	}

	if !isValidString(r.Name) {
		return common.NewValidationError("Recipe must have valid name")
	}

	if len(r.Ingredients) == 0 {
		return common.NewValidationError("Recipe must have at least one ingredient")
	}

	for _, ing := range r.Ingredients {
		if !isValidIngredient(ing) {
			return common.NewValidationError("All ingredients must have a name, a unit and a valid quantity")
		}
	}

	if len(r.Steps) == 0 {
		return common.NewValidationError("Recipe must have at least one step")
	}

	for _, step := range r.Steps {
		if !isValidString(step) {
			return common.NewValidationError("All step must be a non-empty text")
		}
	}

	return nil
}
