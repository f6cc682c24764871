package figure

// Scene is one canvas of an alternate visualization engine.
type Scene interface {
	// SaveTo renders the scene to a PNG file.
	SaveTo(path string) error
}

// SceneEngine is the hook for a secondary renderer whose output should be
// harvested alongside the plot figures. Scenes are drained once per code
// block, after the plot figures, and closed afterwards; a closed scene must
// not reappear in later blocks.
type SceneEngine interface {
	Scenes() []Scene
	CloseAll()
}
