package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDocumentManager(t *testing.T) *DocumentManager {
	t.Helper()

	dm := NewDocumentManager()
	t.Cleanup(dm.Close)

	return dm
}

func TestOpenDocumentParsesPHP(t *testing.T) {
	dm := setupDocumentManager(t)

	dm.OpenDocument("file:///test.php", `<?php function a() {}`, 1)

	doc, ok := dm.GetDocument("file:///test.php")
	require.True(t, ok)
	require.NotNil(t, doc.Tree)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "program", doc.Tree.RootNode().Kind())
}

func TestUpdateDocumentReplacesTree(t *testing.T) {
	dm := setupDocumentManager(t)

	dm.OpenDocument("file:///test.php", `<?php function a() {}`, 1)
	dm.UpdateDocument("file:///test.php", `<?php function b() { return 1; }`, 2)

	doc, ok := dm.GetDocument("file:///test.php")
	require.True(t, ok)
	assert.Equal(t, 2, doc.Version)
	assert.Contains(t, string(doc.Text), "function b")
}

func TestUpdateUnknownDocumentOpensIt(t *testing.T) {
	dm := setupDocumentManager(t)

	dm.UpdateDocument("file:///new.php", `<?php`, 1)

	_, ok := dm.GetDocument("file:///new.php")
	assert.True(t, ok)
}

func TestCloseDocument(t *testing.T) {
	dm := setupDocumentManager(t)

	dm.OpenDocument("file:///test.php", `<?php`, 1)
	dm.CloseDocument("file:///test.php")

	_, ok := dm.GetDocument("file:///test.php")
	assert.False(t, ok)
}

func TestGetNodeAtPosition(t *testing.T) {
	dm := setupDocumentManager(t)

	dm.OpenDocument("file:///test.php", `<?php function getUser() { return 1; }`, 1)

	node, doc, ok := dm.GetNodeAtPosition("file:///test.php", 0, 16)
	require.True(t, ok)
	require.NotNil(t, node)
	require.NotNil(t, doc)
	assert.Equal(t, "name", node.Kind())
	assert.Equal(t, "getUser", string(node.Utf8Text(doc.Text)))
}

func TestGetNodeAtPositionUnknownDocument(t *testing.T) {
	dm := setupDocumentManager(t)

	_, _, ok := dm.GetNodeAtPosition("file:///missing.php", 0, 0)
	assert.False(t, ok)
}

func TestNonPHPDocumentHasNoTree(t *testing.T) {
	dm := setupDocumentManager(t)

	dm.OpenDocument("file:///readme.md", "# hello", 1)

	doc, ok := dm.GetDocument("file:///readme.md")
	require.True(t, ok)
	assert.Nil(t, doc.Tree)
}
