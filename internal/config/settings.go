package config

import "time"

// Settings holds the runtime options read from the environment.
type Settings struct {
	Seed       int64
	Infinite   bool
	MapPath    string
	MapTiles   int
	SavePath   string
	SaveDir    string
	RunSeconds float64
}

// LoadSettings reads Settings from SWARM_* environment variables.
func LoadSettings() Settings {
	s := Settings{
		Seed:       GetEnvInt("SWARM_SEED", time.Now().UnixNano()),
		Infinite:   GetEnvBool("SWARM_INFINITE", false),
		MapPath:    GetEnv("SWARM_MAP", ""),
		MapTiles:   int(GetEnvInt("SWARM_MAP_TILES", DefaultMapTiles)),
		SavePath:   GetEnv("SWARM_SAVE", "swarm.sav"),
		SaveDir:    GetEnv("SWARM_SAVE_DIR", "saves"),
		RunSeconds: GetEnvFloat("SWARM_RUN_SECONDS", DefaultRunSeconds),
	}
	if s.MapTiles < 8 {
		s.MapTiles = 8
	}
	if s.RunSeconds < 0 {
		s.RunSeconds = 0
	}
	return s
}
