// Package main (in api-subfolder) provides launch of the face registration and recognition API
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/FaceRecognizer/internal/events"
	"github.com/UnendingLoop/FaceRecognizer/internal/kafka"
	"github.com/UnendingLoop/FaceRecognizer/internal/mwlogger"
	"github.com/UnendingLoop/FaceRecognizer/internal/rekognizer"
	"github.com/UnendingLoop/FaceRecognizer/internal/service"
	"github.com/UnendingLoop/FaceRecognizer/internal/storage"
	"github.com/UnendingLoop/FaceRecognizer/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/ginext"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/zlog"
)

const eventBuffer = 256

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Printf("No .env loaded (%v), using process environment", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel(getOrDefault(appConfig, "LOG_LEVEL", "info")); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// клиент Rekognition создается один раз и шарится между запросами
	matcher, err := rekognizer.NewRekognitionClient(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to init Rekognition client: %v", err)
	}
	if err := matcher.EnsureCollection(ctx); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Failed to ensure face collection, requests may fail")
	}

	// необязательные приемники событий
	var snapshots events.SnapshotStorage
	strg, err := storage.NewSnapshotStorage(appConfig, 5, 5*time.Second)
	switch {
	case err != nil:
		zlog.Logger.Warn().Err(err).Msg("Snapshot archiving disabled")
	case strg != nil:
		snapshots = strg
	}

	var (
		publisher events.Publisher
		producer  *wbfkafka.Producer
	)
	if broker := appConfig.GetString("KAFKA_BROKER"); broker != "" {
		topic := getOrDefault(appConfig, "KAFKA_TOPIC", "face-events")
		if err := startKafka(ctx, broker, topic); err != nil {
			zlog.Logger.Warn().Err(err).Msg("Face event publishing disabled")
		} else {
			producer = wbfkafka.NewProducer([]string{broker}, topic)
			publisher = producer
		}
	}

	// диспетчер запускается только если есть куда отдавать события
	// свой контекст, чтобы события от запросов, завершающихся при остановке сервера, тоже ушли
	var emitter service.EventEmitter
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	dispatcherDone := make(chan struct{})
	if snapshots != nil || publisher != nil {
		dispatcher := events.NewDispatcher(publisher, snapshots, appConfig.GetString("SNAPSHOT_PREFIX"), eventBuffer)
		emitter = dispatcher
		go func() {
			dispatcher.Run(dispatchCtx)
			close(dispatcherDone)
		}()
	} else {
		close(dispatcherDone)
	}

	// создаем экземпляр сервиса
	var svc FaceAPIService = service.NewFaceService(matcher, emitter)
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewFaceHandler(svc)
	// сетапим сервер
	engine := ginext.New(appConfig.GetString("GIN_MODE"))

	engine.GET("/ping", handlers.SimplePinger)
	engine.Any("/api/register", handlers.Register)   // регистрация лица
	engine.Any("/api/recognize", handlers.Recognize) // распознавание лица

	srv := &http.Server{
		Addr:              ":" + getOrDefault(appConfig, "APP_PORT", "8080"),
		Handler:           mwlogger.NewMWLogger(transport.PostOnly(engine, "/api/register", "/api/recognize")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// ждем отмены контекста для запуска грейсфул остановки
	<-ctx.Done()

	shutdown(srv, stopDispatch, dispatcherDone, producer)
	log.Println("Exiting API...")
}

func startKafka(ctx context.Context, broker, topic string) error {
	if err := kafka.WaitKafkaReady(ctx, broker, 10, 5*time.Second); err != nil {
		return err
	}
	return kafka.EnsureTopics(ctx, kafka.NewTopicClient(broker), 5, 5*time.Second, topic)
}

func getOrDefault(cfg *config.Config, key, def string) string {
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return def
}

func shutdown(srv *http.Server, stopDispatch context.CancelFunc, dispatcherDone <-chan struct{}, prod *wbfkafka.Producer) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Failed to shutdown HTTP-server correctly:", err)
	}

	// ждем пока диспетчер дочитает очередь
	stopDispatch()
	select {
	case <-dispatcherDone:
	case <-shutdownCtx.Done():
		log.Println("Dispatcher did not drain in time, some events are lost")
	}

	if prod == nil {
		return
	}
	if err := prod.Close(); err != nil {
		log.Println("Failed to close Kafka-writer:", err)
	}
	log.Println("Kafka-producer connection closed.")
}
