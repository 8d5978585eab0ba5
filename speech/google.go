package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"voiceout/log"
)

// wavHeaderSize is the RIFF header Google prepends to LINEAR16 audio.
const wavHeaderSize = 44

// Google synthesizes through Google Cloud Text-to-Speech and plays the result
// locally. Credentials come from GOOGLE_APPLICATION_CREDENTIALS.
type Google struct {
	cfg GoogleConfig

	mu      sync.Mutex
	cancels map[int]context.CancelFunc
	nextID  int
}

func NewGoogle(cfg GoogleConfig) *Google {
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.SpeakingRate == 0 {
		cfg.SpeakingRate = 1.0
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	return &Google{cfg: cfg, cancels: make(map[int]context.CancelFunc)}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	id := g.track(cancel)
	defer g.untrack(id)

	client, err := gctts.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("google tts client: %w", err)
	}
	defer client.Close()

	linear := strings.EqualFold(g.cfg.Encoding, "linear16")
	audio := &ttspb.AudioConfig{
		AudioEncoding: ttspb.AudioEncoding_MP3,
		SpeakingRate:  g.cfg.SpeakingRate,
		Pitch:         g.cfg.Pitch,
		VolumeGainDb:  g.cfg.VolumeGainDb,
	}
	if linear {
		audio.AudioEncoding = ttspb.AudioEncoding_LINEAR16
		audio.SampleRateHertz = int32(g.cfg.SampleRate)
	}

	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: g.cfg.Language,
			Name:         g.cfg.Voice,
		},
		AudioConfig: audio,
	}

	started := time.Now()
	resp, err := client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return fmt.Errorf("google tts synthesize: %w", err)
	}
	log.Infof("google tts synthesize completed in %s", time.Since(started).Round(time.Millisecond))

	content := resp.GetAudioContent()
	if linear {
		if len(content) > wavHeaderSize {
			content = content[wavHeaderSize:]
		}
		return playPCM(ctx, content, g.cfg.SampleRate)
	}
	return playMP3(ctx, content)
}

// Stop cancels every synthesis or playback in flight.
func (g *Google) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, cancel := range g.cancels {
		cancel()
	}
}

func (g *Google) track(cancel context.CancelFunc) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.cancels[g.nextID] = cancel
	return g.nextID
}

func (g *Google) untrack(id int) {
	g.mu.Lock()
	cancel := g.cancels[id]
	delete(g.cancels, id)
	g.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
