package game

// Scene is the lifecycle phase of a Session.
type Scene int

const (
	SceneStart    Scene = iota // Idle title screen, nothing simulated
	ScenePlaying               // All updates active
	SceneGameOver              // Idle final screen, left only via ReturnToStart
)

func (s Scene) String() string {
	switch s {
	case SceneStart:
		return "start"
	case ScenePlaying:
		return "playing"
	case SceneGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}
