package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/workshop-platform/internal/apperr"
)

// writeError переводит бизнес-ошибку ядра в HTTP-ответ.
// Небизнесовые ошибки (хранилище) наружу не раскрываются.
func writeError(c *gin.Context, log *logrus.Logger, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperr.KindInvalidTransition, apperr.KindInvalidState:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.WithField("path", c.FullPath()).WithError(err).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
