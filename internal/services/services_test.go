package services

import "spendwise/internal/logger"

func init() {
	logger.Init("test")
}
