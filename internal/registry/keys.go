package registry

// Well-known identifiers.
var (
	InterfaceShader = MustParse("interface_shader")

	MissingTexture = MustParse("missing_texture")
	FullMask       = MustParse("full_mask")

	GUIAtlas = MustParse("gui_texture_atlas")
)
