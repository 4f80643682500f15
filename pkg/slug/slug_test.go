// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmunteanu/primaria/pkg/slug"
)

/*
TestFrom verifies the slug transformation pipeline on typical municipal titles.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Local Budget 2024", "local-budget-2024"},
		{"romanian_diacritics", "Hotărâre privind bugetul", "hotarare-privind-bugetul"},
		{"punctuation", "Anunț: ședință publică (III)", "anunt-sedinta-publica-iii"},
		{"multi_space", "a   b", "a-b"},
		{"leading_trailing", " - title - ", "title"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
