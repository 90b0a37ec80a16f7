// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"fmt"
	"strings"
)

// MaxExpressionLength caps user expression text. Long inputs are rejected
// before they reach the parser.
const MaxExpressionLength = 512

// expressionAllowed is the character allowlist for expression text. The
// parser enforces the grammar; this check exists so raw user text never
// reaches subprocess arguments or generated documents with shell or TeX
// metacharacters in it.
const expressionAllowed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+-*/^()._ \t"

// ValidateExpressionText validates raw expression input to prevent command
// and document injection.
//
// Valid expressions:
//   - 1-512 characters
//   - Letters, digits, whitespace
//   - Arithmetic operators + - * / ^
//   - Parentheses, dots, underscores
//
// Returns an error if the text is invalid.
//
// Example:
//
//	if err := validation.ValidateExpressionText(input); err != nil {
//	    return nil, fmt.Errorf("invalid expression: %w", err)
//	}
//	// Safe to parse and embed in generated documents
func ValidateExpressionText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("expression cannot be empty")
	}
	if len(text) > MaxExpressionLength {
		return fmt.Errorf("expression exceeds %d characters", MaxExpressionLength)
	}
	for _, r := range text {
		if !strings.ContainsRune(expressionAllowed, r) {
			return fmt.Errorf("expression contains disallowed character %q", r)
		}
	}
	return nil
}

// ValidateVariableName validates an integration variable name.
//
// Valid names start with a letter and contain only letters, digits, and
// underscores, up to 16 characters.
func ValidateVariableName(name string) error {
	if name == "" {
		return fmt.Errorf("variable name cannot be empty")
	}
	if len(name) > 16 {
		return fmt.Errorf("variable name exceeds 16 characters")
	}
	for i, r := range name {
		isLetter := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return fmt.Errorf("variable name must start with a letter: %q", name)
		}
		if !isLetter && !isDigit && r != '_' {
			return fmt.Errorf("variable name contains disallowed character %q", r)
		}
	}
	return nil
}

// SanitizeExpressionText trims and validates expression text. Returns the
// trimmed expression if valid, or an error if invalid.
func SanitizeExpressionText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if err := ValidateExpressionText(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
