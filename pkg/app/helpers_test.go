package app

import "github.com/HorseArcher567/octolog/pkg/api"

func adminConfig() *api.ServerConfig {
	return &api.ServerConfig{Host: "127.0.0.1", Mode: "test"}
}
