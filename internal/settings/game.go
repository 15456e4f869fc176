package settings

// Keys of the game settings screen.
const (
	KeyGraphicsQuality  = "GraphicsQualitySetting"
	KeyFrameLimit       = "FrameLimitSetting"
	KeyCameraProjection = "CameraProjectionSetting"
	KeyMusic            = "ToggleMusicSetting"
	KeySFX              = "ToggleSfxSetting"
	KeyLanguage         = "LanguageSetting"
)

// Graphics quality levels.
const (
	QualityLow = iota
	QualityMedium
	QualityHigh
)

// Frame rate caps.
const (
	FrameRate60 = 60
	FrameRate30 = 30
)

// Camera projections. Perspective is the 3D view.
const (
	ProjectionPerspective  = 0
	ProjectionOrthographic = 1
)

// LanguageAdapter applies a language index and describes the catalog it
// indexes into.
type LanguageAdapter interface {
	Adapter
	Catalog
}

// GameAdapters are the subsystems the game settings propagate to. Nil
// adapters are skipped; Language is required because it also supplies the
// language catalog.
type GameAdapters struct {
	Graphics   Adapter
	FrameLimit Adapter
	Camera     Adapter
	Music      Adapter
	SFX        Adapter
	Language   LanguageAdapter
}

// Game returns the definitions of the game settings screen.
func Game(a GameAdapters) []Definition {
	var lang Adapter
	var cat Catalog
	if a.Language != nil {
		lang, cat = a.Language, a.Language
	}
	return []Definition{
		CyclicSetting(KeyGraphicsQuality, 3, QualityHigh, a.Graphics),
		BinarySetting(KeyFrameLimit, FrameRate60, FrameRate30, FrameRate60, a.FrameLimit),
		BinarySetting(KeyCameraProjection, ProjectionPerspective, ProjectionOrthographic, ProjectionPerspective, a.Camera),
		BinarySetting(KeyMusic, On, Off, On, a.Music),
		BinarySetting(KeySFX, On, Off, On, a.SFX),
		CatalogSetting(KeyLanguage, cat, lang),
	}
}
