package trackLog

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"nutrition-go-worker/models"
	"nutrition-go-worker/services/log"
)

var logTracker logrus.FieldLogger = logrus.StandardLogger()

func LogTrackInit(logService *log.LogService) {
	userEntity := models.User{ID: "tracker", Nickname: "log追蹤"}
	temp := logService.LoggerInit(userEntity)
	logTracker = temp.WithFields(logrus.Fields{"task": "track", "name": userEntity.Nickname, "user_id": userEntity.ID})
}

// Logger 給需要 logrus.FieldLogger 的 service 用
func Logger() logrus.FieldLogger {
	return logTracker
}

func Info(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Info(message)
	}
	fmt.Println(message)
}

func Error(message string, needWriteLog bool) {
	if needWriteLog {
		logTracker.Error(message)
	}
	fmt.Println(message)
}
