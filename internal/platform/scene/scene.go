package scene

import (
	"log/slog"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// GameScene is the scene entered when a session starts
const GameScene = "GameScene"

// Loader performs the actual scene transition. Implemented by the engine
// integration; the core only decides when to invoke it.
type Loader interface {
	RequestSceneLoad(sceneName string)
}

// Director gates scene transitions on session role. Only the host drives
// transitions; a client-role peer follows the host's scene synchronization
// instead, so its requests are logged and discarded.
type Director struct {
	loader Loader
	logger *slog.Logger
}

// NewDirector creates a new scene Director
func NewDirector(loader Loader, logger *slog.Logger) *Director {
	return &Director{
		loader: loader,
		logger: logger.With(slog.String("component", "scene")),
	}
}

// RequestSceneLoad asks the loader to transition, if the caller holds the
// host role
func (d *Director) RequestSceneLoad(role model.SessionRole, sceneName string) {
	if role != model.RoleHost {
		d.logger.Info("scene load skipped for non-host role",
			slog.String("role", string(role)),
			slog.String("scene", sceneName))
		return
	}
	d.loader.RequestSceneLoad(sceneName)
}

// LogLoader is a Loader that only records the transition. Used when no
// engine integration is attached.
type LogLoader struct {
	logger *slog.Logger
}

// NewLogLoader creates a new LogLoader
func NewLogLoader(logger *slog.Logger) *LogLoader {
	return &LogLoader{logger: logger.With(slog.String("component", "scene-loader"))}
}

// RequestSceneLoad logs the requested transition
func (l *LogLoader) RequestSceneLoad(sceneName string) {
	l.logger.Info("scene load requested", slog.String("scene", sceneName))
}

// Ensure LogLoader implements Loader
var _ Loader = (*LogLoader)(nil)
