package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsTokenGroups(t *testing.T) {
	vocab := DefaultVocabulary()

	assert.True(t, ContainsTokenGroups(NormalizeText("ENERGIA ATIVA INJETADA MUC"), vocab.MUC))
	assert.True(t, ContainsTokenGroups(NormalizeText("energia ativa injetada m-uc"), vocab.MUC))
	assert.True(t, ContainsTokenGroups(NormalizeText("Energia Atv Injet oUC 09/2024"), vocab.OUC))
	assert.False(t, ContainsTokenGroups(NormalizeText("Energia Ativa Fornecida"), vocab.MUC))
	assert.False(t, ContainsTokenGroups(NormalizeText("Consumo em kWh"), vocab.OUC))
}

func TestContainsTokenGroupsCommutative(t *testing.T) {
	line := NormalizeText("Injetada mUC Energia Ativa")

	groups := Label{
		{"energia"},
		{"ativa", "atv"},
		{"injetada", "injet"},
		{"muc"},
	}
	reversed := Label{
		{"muc"},
		{"injetada", "injet"},
		{"ativa", "atv"},
		{"energia"},
	}

	assert.True(t, ContainsTokenGroups(line, groups))
	assert.Equal(t, ContainsTokenGroups(line, groups), ContainsTokenGroups(line, reversed))
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("  primeira  \n\n\t\nsegunda\n")
	assert.Equal(t, []string{"primeira", "segunda"}, lines)

	assert.Nil(t, SplitLines("\n\n  \n"))
}
