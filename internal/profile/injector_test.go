package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const profileDefinition = `Description='Work wireless profile'
Interface=wlan0
Connection=wireless
Security=wpa
ESSID=corpnet
Key=oldsecret
IP=dhcp
`

func TestSetSecretRewritesOnlyKeyLine(t *testing.T) {
	cfg := newTestConfig(t)
	writeProfile(t, cfg, "work", profileDefinition)
	inj := NewInjector(cfg)

	if err := inj.SetSecret("work", "newsecret"); err != nil {
		t.Fatalf("SetSecret() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.ProfileDir, "work"))
	if err != nil {
		t.Fatalf("failed to read profile: %v", err)
	}

	want := `Description='Work wireless profile'
Interface=wlan0
Connection=wireless
Security=wpa
ESSID=corpnet
Key=newsecret
IP=dhcp
`
	if string(data) != want {
		t.Errorf("unexpected profile content:\n%s", data)
	}
}

func TestSetSecretIdempotent(t *testing.T) {
	cfg := newTestConfig(t)
	writeProfile(t, cfg, "work", profileDefinition)
	inj := NewInjector(cfg)

	if err := inj.SetSecret("work", "hunter2"); err != nil {
		t.Fatalf("first SetSecret() failed: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(cfg.ProfileDir, "work"))
	if err != nil {
		t.Fatalf("failed to read profile: %v", err)
	}

	if err := inj.SetSecret("work", "hunter2"); err != nil {
		t.Fatalf("second SetSecret() failed: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(cfg.ProfileDir, "work"))
	if err != nil {
		t.Fatalf("failed to read profile: %v", err)
	}

	if string(first) != string(second) {
		t.Error("applying the same secret twice should leave the file byte-identical")
	}
}

func TestSetSecretShorterAndLongerValues(t *testing.T) {
	cfg := newTestConfig(t)
	writeProfile(t, cfg, "work", profileDefinition)
	inj := NewInjector(cfg)

	// A longer secret, then a shorter one: the rewrite must truncate so no
	// residue of the longer value survives.
	if err := inj.SetSecret("work", "averyveryverylongsecretvalue"); err != nil {
		t.Fatalf("SetSecret() failed: %v", err)
	}
	if err := inj.SetSecret("work", "ab"); err != nil {
		t.Fatalf("SetSecret() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.ProfileDir, "work"))
	if err != nil {
		t.Fatalf("failed to read profile: %v", err)
	}
	want := `Description='Work wireless profile'
Interface=wlan0
Connection=wireless
Security=wpa
ESSID=corpnet
Key=ab
IP=dhcp
`
	if string(data) != want {
		t.Errorf("unexpected profile content after shrink:\n%s", data)
	}
}

func TestSetSecretMissingMarker(t *testing.T) {
	cfg := newTestConfig(t)
	writeProfile(t, cfg, "open", "Description='Open network'\nESSID=freewifi\n")
	inj := NewInjector(cfg)

	err := inj.SetSecret("open", "whatever")
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("expected ErrWriteFailed for a definition without a Key= line, got %v", err)
	}
}

func TestSetSecretMissingProfile(t *testing.T) {
	cfg := newTestConfig(t)
	inj := NewInjector(cfg)

	err := inj.SetSecret("ghost", "whatever")
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("expected ErrWriteFailed for a missing profile, got %v", err)
	}
}
