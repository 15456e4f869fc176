// Package subsystem provides in-process stand-ins for the engine subsystems
// that game settings propagate to: rendering, audio and localization. Each
// one keeps the last applied state so hosts can display it.
package subsystem

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

func discard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}

// RendererState is a snapshot of the renderer configuration.
type RendererState struct {
	QualityLevel    int  `json:"quality_level"`
	TargetFrameRate int  `json:"target_frame_rate"`
	Perspective     bool `json:"perspective"`
}

// Renderer owns quality level, frame rate cap and camera projection.
type Renderer struct {
	mu     sync.Mutex
	state  RendererState
	logger *log.Logger
}

// NewRenderer returns a renderer with nothing applied yet.
func NewRenderer(logger *log.Logger) *Renderer {
	return &Renderer{logger: discard(logger).WithPrefix("renderer")}
}

// SetQualityLevel selects the quality preset.
func (r *Renderer) SetQualityLevel(level int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.QualityLevel = level
	r.logger.Debug("quality level", "level", level)
}

// SetTargetFrameRate caps the frame rate.
func (r *Renderer) SetTargetFrameRate(fps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.TargetFrameRate = fps
	r.logger.Debug("target frame rate", "fps", fps)
}

// SetProjection switches between perspective (3D) and orthographic (2D).
func (r *Renderer) SetProjection(perspective bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Perspective = perspective
	r.logger.Debug("camera projection", "perspective", perspective)
}

// State returns the current renderer state.
func (r *Renderer) State() RendererState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// MixerState is a snapshot of the audio mixer.
type MixerState struct {
	MusicMuted bool `json:"music_muted"`
	SFXMuted   bool `json:"sfx_muted"`
}

// Mixer mutes and unmutes the music and sound effect buses.
type Mixer struct {
	mu     sync.Mutex
	state  MixerState
	logger *log.Logger
}

// NewMixer returns a mixer with both buses unmuted.
func NewMixer(logger *log.Logger) *Mixer {
	return &Mixer{logger: discard(logger).WithPrefix("mixer")}
}

// SetMusic unmutes music when on is true and mutes it otherwise.
func (m *Mixer) SetMusic(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.MusicMuted = !on
	m.logger.Debug("music", "muted", !on)
}

// SetSFX unmutes sound effects when on is true and mutes them otherwise.
func (m *Mixer) SetSFX(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.SFXMuted = !on
	m.logger.Debug("sfx", "muted", !on)
}

// State returns the current mixer state.
func (m *Mixer) State() MixerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
