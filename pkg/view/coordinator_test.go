package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atelier-studio/atelier/pkg/library"
)

func TestSelectView(t *testing.T) {
	c := NewCoordinator()
	require.Equal(t, ScreenStudio, c.Active())
	c.SelectView(ScreenLibrary)
	require.Equal(t, ScreenLibrary, c.Active())
}

func TestInspection(t *testing.T) {
	c := NewCoordinator()
	_, ok := c.Inspected()
	require.False(t, ok)

	c.Inspect(library.SavedDesign{ID: "design_1", Prompt: "a poster"})
	got, ok := c.Inspected()
	require.True(t, ok)
	require.Equal(t, "design_1", got.ID)

	c.ClearInspection()
	_, ok = c.Inspected()
	require.False(t, ok)
}

func TestHandleDeleted(t *testing.T) {
	c := NewCoordinator()
	c.Inspect(library.SavedDesign{ID: "design_1"})

	// deleting a different design keeps the selection
	c.HandleDeleted("design_2")
	got, ok := c.Inspected()
	require.True(t, ok)
	require.Equal(t, "design_1", got.ID)

	// deleting the inspected design clears it
	c.HandleDeleted("design_1")
	_, ok = c.Inspected()
	require.False(t, ok)
}

func TestMarkImageFailed_IdempotentAndMonotonic(t *testing.T) {
	c := NewCoordinator()
	require.False(t, c.ImageFailed("http://x/img.png"))

	c.MarkImageFailed("http://x/img.png")
	require.True(t, c.ImageFailed("http://x/img.png"))

	c.MarkImageFailed("http://x/img.png")
	require.True(t, c.ImageFailed("http://x/img.png"))
	require.False(t, c.ImageFailed("http://x/other.png"))

	c.MarkImageFailed("")
	require.False(t, c.ImageFailed(""))
}
