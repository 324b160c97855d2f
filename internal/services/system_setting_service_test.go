package services

import (
	"context"
	"errors"
	"testing"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
)

type fakeSettingStore struct {
	values map[string]string
}

func (f *fakeSettingStore) Get(_ context.Context, key string) (*models.SystemSetting, error) {
	v, ok := f.values[key]
	if !ok {
		return nil, apperr.NotFound("setting", key)
	}
	return &models.SystemSetting{SettingKey: key, SettingValue: v}, nil
}

func (f *fakeSettingStore) List(context.Context) ([]*models.SystemSetting, error) {
	var out []*models.SystemSetting
	for k, v := range f.values {
		out = append(out, &models.SystemSetting{SettingKey: k, SettingValue: v})
	}
	return out, nil
}

func (f *fakeSettingStore) Upsert(_ context.Context, key, value, _ string, _ int) error {
	f.values[key] = value
	return nil
}

func (f *fakeSettingStore) InsertDefault(_ context.Context, key, value, _ string) error {
	if _, ok := f.values[key]; !ok {
		f.values[key] = value
	}
	return nil
}

func TestBirdsPerCage(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   int
	}{
		{"absent uses default", map[string]string{}, 16},
		{"stored value", map[string]string{"birds_per_cage": "12"}, 12},
		{"padded value", map[string]string{"birds_per_cage": " 20 "}, 20},
		{"garbage uses default", map[string]string{"birds_per_cage": "many"}, 16},
		{"zero uses default", map[string]string{"birds_per_cage": "0"}, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSystemSettingService(&fakeSettingStore{values: tt.values}, 16, nil)
			if got := svc.BirdsPerCage(context.Background()); got != tt.want {
				t.Errorf("BirdsPerCage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnsureDefaultsKeepsExistingValue(t *testing.T) {
	store := &fakeSettingStore{values: map[string]string{"birds_per_cage": "14"}}
	svc := NewSystemSettingService(store, 16, nil)
	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults() error = %v", err)
	}
	if store.values["birds_per_cage"] != "14" {
		t.Errorf("existing value overwritten: %s", store.values["birds_per_cage"])
	}

	empty := &fakeSettingStore{values: map[string]string{}}
	if err := NewSystemSettingService(empty, 16, nil).EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults() error = %v", err)
	}
	if empty.values["birds_per_cage"] != "16" {
		t.Errorf("default not written: %v", empty.values)
	}
}

func TestUpdateSettingValidatesBirdsPerCage(t *testing.T) {
	store := &fakeSettingStore{values: map[string]string{}}
	svc := NewSystemSettingService(store, 16, nil)

	for _, bad := range []string{"", "abc", "-3", "0"} {
		if err := svc.UpdateSetting(context.Background(), models.SettingBirdsPerCage, bad, 1); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("UpdateSetting(%q) error = %v, want validation error", bad, err)
		}
	}
	if err := svc.UpdateSetting(context.Background(), models.SettingBirdsPerCage, "18", 1); err != nil {
		t.Fatalf("UpdateSetting() error = %v", err)
	}
	if svc.BirdsPerCage(context.Background()) != 18 {
		t.Errorf("BirdsPerCage() = %d after update", svc.BirdsPerCage(context.Background()))
	}
}
