package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lexassist/lexassist/internal/providers/stt"
	"github.com/lexassist/lexassist/internal/services"
)

// VoiceWorkerPool drains queued voice answers from a Redis stream,
// transcribes them, and feeds the transcript through the session
// pipeline. Progress is published to the session's event channel so a
// websocket client sees the turn advance.
type VoiceWorkerPool struct {
	Redis      *redis.Client
	Sessions   services.SessionService
	STT        stt.Provider
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *VoiceWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Sessions == nil || p.STT == nil {
		return errors.New("VoiceWorkerPool missing dependency: Redis/Sessions/STT must be set")
	}
	if p.Stream == "" {
		p.Stream = "voice:stream"
	}
	if p.Group == "" {
		p.Group = "voice-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 5
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *VoiceWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func normalizeLanguage(v string) string {
	v = strings.TrimSpace(v)
	switch v {
	case "hi", "hi-IN":
		return "hi-IN"
	case "en", "en-IN":
		return "en-IN"
	default:
		if v == "" {
			return "en-IN"
		}
		return v
	}
}

func (p *VoiceWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	sessionID := getStr("session_id")
	userID := getStr("user_id")
	if sessionID == "" || userID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"session_id": sessionID,
	})

	eventsCh := "session:" + sessionID + ":events"
	language := normalizeLanguage(getStr("language"))
	fileName := getStr("file_name")
	if fileName == "" {
		fileName = "voice-answer.wav"
	}

	audioBytes, errMsg := p.fetchAudio(ctx, getStr)
	if errMsg != "" {
		log.Warn(errMsg)
		p.publishStatus(ctx, eventsCh, "failed", errMsg)
		return
	}

	p.publishStatus(ctx, eventsCh, "processing", "transcribing")

	text, conf, err := p.STT.Transcribe(ctx, audioBytes, language)
	if err != nil || strings.TrimSpace(text) == "" {
		log.WithError(err).Error("transcription failed")
		p.publishStatus(ctx, eventsCh, "failed", "transcription failed")
		return
	}

	view, err := p.Sessions.SubmitVoiceAnswer(ctx, userID, sessionID, audioBytes, fileName, text, language)
	if err != nil {
		log.WithError(err).Error("voice turn failed")
		p.publishStatus(ctx, eventsCh, "failed", "voice turn rejected")
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"type":          "voice_turn",
		"transcript":    text,
		"confidence":    conf,
		"next_question": view.NextQuestion,
		"status":        view.Status,
	})
	_ = p.Redis.Publish(ctx, eventsCh, string(payload)).Err()
}

func (p *VoiceWorkerPool) fetchAudio(ctx context.Context, getStr func(string) string) ([]byte, string) {
	if b64 := getStr("audio_base64"); b64 != "" {
		raw := b64
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:] // strip data:...;base64,
		}
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, "invalid audio_base64"
		}
		return decoded, ""
	}

	if url := getStr("audio_url"); url != "" {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, "failed to fetch audio_url"
		}
		defer resp.Body.Close()

		const maxBytes = 10 << 20
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
		if len(body) == 0 {
			return nil, "empty audio"
		}
		return body, ""
	}

	return nil, "no audio supplied"
}

func (p *VoiceWorkerPool) publishStatus(ctx context.Context, channel, status, message string) {
	payload, _ := json.Marshal(map[string]any{
		"type":    "status",
		"status":  status,
		"message": message,
	})
	_ = p.Redis.Publish(ctx, channel, string(payload)).Err()
}
