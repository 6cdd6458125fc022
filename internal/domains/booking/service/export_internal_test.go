package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBoldHeader(t *testing.T) {
	file := excelize.NewFile()
	defer file.Close()

	require.NoError(t, boldHeader(file, "Sheet1"))

	styleID, err := file.GetCellStyle("Sheet1", "K1")
	require.NoError(t, err)

	style, err := file.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	assert.Error(t, boldHeader(file, "Missing"), "styling an absent sheet fails")
}
