package log

import (
	"fmt"
	"io/ioutil"
	"net"
	"os"
	"path"
	"sync"
	"time"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"

	"nutrition-go-worker/models"
	"nutrition-go-worker/structs"
)

const logType = "nutrition-golang-worker"

type LogService struct {
	Config structs.LogConfig
	// Dir 空字串時用 工作目錄/logs
	Dir string

	mu       sync.Mutex
	subjects map[string]*subjectLogger
	byLogger map[*logrus.Logger]string
}

// subjectLogger 同一天同一個對象共用一個 logger, refs 歸零時關檔
type subjectLogger struct {
	logger *logrus.Logger
	file   *os.File
	conn   net.Conn
	refs   int
}

func NewLogService(config structs.LogConfig) *LogService {
	return &LogService{Config: config}
}

func (l *LogService) logDir(now time.Time) string {
	dir := l.Dir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = path.Join(wd, "logs")
		}
	}
	return path.Join(dir, now.Format("2006-01-02"))
}

// LoggerInit 每個用戶一個 log 檔: logs/<日期>/<user id>.log, 用完呼叫 Release
func (l *LogService) LoggerInit(userEntity models.User) *logrus.Logger {
	now := time.Now()
	key := now.Format("2006-01-02") + "/" + userEntity.ID

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.subjects == nil {
		l.subjects = make(map[string]*subjectLogger)
		l.byLogger = make(map[*logrus.Logger]string)
	}
	if cached, ok := l.subjects[key]; ok {
		cached.refs++
		return cached.logger
	}

	subject := l.newSubjectLogger(userEntity, now)
	subject.refs = 1
	l.subjects[key] = subject
	l.byLogger[subject.logger] = key
	return subject.logger
}

// Release 歸還 LoggerInit 拿到的 logger, 沒人使用時關閉檔案與 logstash 連線
func (l *LogService) Release(logger *logrus.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key, ok := l.byLogger[logger]
	if !ok {
		return
	}
	subject := l.subjects[key]
	subject.refs--
	if subject.refs > 0 {
		return
	}
	delete(l.subjects, key)
	delete(l.byLogger, logger)
	subject.close()
}

// Close 程式結束時關閉全部
func (l *LogService) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, subject := range l.subjects {
		delete(l.byLogger, subject.logger)
		delete(l.subjects, key)
		subject.close()
	}
}

func (s *subjectLogger) close() {
	s.logger.SetOutput(ioutil.Discard)
	if s.file != nil {
		s.file.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
}

func (l *LogService) newSubjectLogger(userEntity models.User, now time.Time) *subjectLogger {
	subject := &subjectLogger{}
	logFilePath := l.logDir(now)
	if err := os.MkdirAll(logFilePath, 0777); err != nil {
		fmt.Println(err.Error())
	}
	//日誌檔
	fileName := path.Join(logFilePath, userEntity.ID+".log")

	//實例化
	logger := logrus.New()
	subject.logger = logger

	//寫入檔案
	src, err := os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Println("err", err)
	} else {
		logger.Out = src
		subject.file = src
	}

	//設定日誌級別
	logger.SetLevel(logrus.DebugLevel)

	//設定日誌格式
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if l.Config.ElkEnable == 1 {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{l.Config.ElkURL},
		})
		if err != nil {
			logger.Debug(err.Error())
		}
		hook, err := elogrus.NewAsyncElasticHook(client, logType, logrus.DebugLevel, l.Config.ElkIndex)
		if err != nil {
			logger.Debug(err.Error())
		} else {
			logger.Hooks.Add(hook)
		}
	}

	if l.Config.LogstashEnable == 1 {
		conn, err := net.Dial("udp", l.Config.LogstashURL)
		if err != nil {
			logger.Debug(err)
		} else {
			hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": logType, "index": l.Config.LogstashIndex}))
			logger.Hooks.Add(hook)
			subject.conn = conn
		}
	}

	return subject
}
