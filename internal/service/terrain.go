package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
)

var (
	ErrTerrainNameExists = repository.ErrTerrainNameExists
	ErrInvalidPolygon    = fmt.Errorf("%w: a terrain polygon needs at least three points", ErrInvalidInput)
)

type TerrainRepository interface {
	Create(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error)
	Update(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Terrain, error)
	FindByName(ctx context.Context, name string) (domain.Terrain, error)
	List(ctx context.Context) ([]domain.Terrain, error)
}

type TerrainService struct {
	repo TerrainRepository
}

func NewTerrainService(repo TerrainRepository) *TerrainService {
	return &TerrainService{
		repo: repo,
	}
}

func (s *TerrainService) Create(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error) {
	if err := prepareTerrain(&terrain); err != nil {
		return domain.Terrain{}, err
	}

	created, err := s.repo.Create(ctx, terrain)
	if err != nil {
		return domain.Terrain{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *TerrainService) Update(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error) {
	if err := prepareTerrain(&terrain); err != nil {
		return domain.Terrain{}, err
	}

	updated, err := s.repo.Update(ctx, terrain)
	if err != nil {
		return domain.Terrain{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// Delete removes the terrain and every reservation made for it.
func (s *TerrainService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *TerrainService) Get(ctx context.Context, id uint) (domain.Terrain, error) {
	terrain, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Terrain{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return terrain, nil
}

func (s *TerrainService) FindByName(ctx context.Context, name string) (domain.Terrain, error) {
	terrain, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Terrain{}, fmt.Errorf("s.repo.FindByName -> %w", err)
	}

	return terrain, nil
}

func (s *TerrainService) List(ctx context.Context) ([]domain.Terrain, error) {
	terrains, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return terrains, nil
}

// prepareTerrain trims the text fields and fills a missing center with the
// polygon centroid.
func prepareTerrain(t *domain.Terrain) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Tags = strings.Join(t.TagList(), ",")
	t.Description = strings.TrimSpace(t.Description)

	if len(t.Polygon) > 0 && len(t.Polygon) < 3 {
		return ErrInvalidPolygon
	}

	if t.CenterLat == 0 && t.CenterLon == 0 && len(t.Polygon) > 0 {
		c := domain.Centroid(t.Polygon)
		t.CenterLat, t.CenterLon = c.Lat(), c.Lon()
	}

	images := make([]string, 0, len(t.ImageURLs))
	for _, u := range t.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			images = append(images, u)
		}
	}
	t.ImageURLs = images

	return nil
}
