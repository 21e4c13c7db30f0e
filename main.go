package main

import (
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pushgate/pushgate/service"
)

var opts struct {
	ConfigLocation string `short:"c" long:"config" description:"Config file location"`
	ApiPort        string `long:"api-port" description:"API port"`
	AdminPort      string `long:"admin-port" description:"Admin port (metrics, build info)"`
	DB             string `long:"db" description:"Registry database directory"`
	KeyFile        string `long:"key-file" description:"APNs signing key (.p8) location"`
	KeyID          string `long:"key-id" description:"APNs signing key id"`
	TeamID         string `long:"team-id" description:"Apple developer team id"`
	Topic          string `long:"topic" description:"APNs topic (app bundle id)"`
}

func main() {

	if _, err := flags.ParseArgs(&opts, os.Args); err != nil {
		log.Fatal("failed to parse arguments:", err)
	}

	logCfg := zap.NewProductionConfig()
	logCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := logCfg.Build()
	if err != nil {
		log.Fatal("failed to create logger:", err)
	}

	v := viper.New()
	if opts.ConfigLocation != "" {
		v.SetConfigFile(opts.ConfigLocation)
		if err := v.ReadInConfig(); err != nil {
			log.Fatal("failed to parse config:", err)
		}
	}

	over := &service.Overrides{
		ApiPort:   opts.ApiPort,
		AdminPort: opts.AdminPort,
		DBPath:    opts.DB,
		KeyFile:   opts.KeyFile,
		KeyID:     opts.KeyID,
		TeamID:    opts.TeamID,
		Topic:     opts.Topic,
	}

	svc, err := service.New(v, over, logger)
	if err != nil {
		log.Fatal("failed to create service:", err)
	}

	if err := svc.Run(); err != nil {
		log.Println("close service", err)
	}
}
