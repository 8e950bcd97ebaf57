package app

import (
	"time"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	EvalWorker      bool
	RoundScheduler  bool
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	evalWorker := utils.GetEnvAsBool("EVAL_WORKER_ENABLED", true, log)
	roundScheduler := utils.GetEnvAsBool("ROUND_SCHEDULER_ENABLED", true, log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		EvalWorker:      evalWorker,
		RoundScheduler:  roundScheduler,
	}
}
