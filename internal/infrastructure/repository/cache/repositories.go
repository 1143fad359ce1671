package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	basecache "github.com/riskibarqy/race-predictor/internal/platform/cache"
)

type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	v, err := r.cache.GetOrLoad(ctx, "season:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]season.Season(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]season.Season)
	return append([]season.Season(nil), items...), nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	return r.getOne(ctx, "season:id:"+seasonID, func(ctx context.Context) (season.Season, bool, error) {
		return r.next.GetByID(ctx, seasonID)
	})
}

func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (season.Season, bool, error) {
	return r.getOne(ctx, "season:year:"+strconv.Itoa(year), func(ctx context.Context) (season.Season, bool, error) {
		return r.next.GetByYear(ctx, year)
	})
}

func (r *SeasonRepository) getOne(ctx context.Context, key string, load func(context.Context) (season.Season, bool, error)) (season.Season, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedLookup[season.Season], error) {
		item, exists, err := load(ctx)
		if err != nil {
			return cachedLookup[season.Season]{}, err
		}
		return cachedLookup[season.Season]{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) Upsert(ctx context.Context, s season.Season) (season.Season, error) {
	saved, err := r.next.Upsert(ctx, s)
	if err != nil {
		return season.Season{}, err
	}
	r.cache.DeletePrefix(ctx, "season:")
	return saved, nil
}

// RaceRepository caches race lookups. ListStartedWithoutResult depends on the
// clock and always reaches the wrapped repository.
type RaceRepository struct {
	next  race.Repository
	cache *basecache.Store
}

func NewRaceRepository(next race.Repository, cache *basecache.Store) *RaceRepository {
	return &RaceRepository{next: next, cache: cache}
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, raceByIDKey(raceID), func(ctx context.Context) (cachedLookup[race.Race], error) {
		item, exists, err := r.next.GetByID(ctx, raceID)
		if err != nil {
			return cachedLookup[race.Race]{}, err
		}
		return cachedLookup[race.Race]{value: cloneRace(item), exists: exists}, nil
	})
	if err != nil {
		return race.Race{}, false, err
	}
	return cloneRace(cached.value), cached.exists, nil
}

func (r *RaceRepository) GetBySeasonRound(ctx context.Context, seasonID string, round int) (race.Race, bool, error) {
	return r.next.GetBySeasonRound(ctx, seasonID, round)
}

func (r *RaceRepository) ListBySeason(ctx context.Context, seasonID string) ([]race.Race, error) {
	items, err := basecache.Load(ctx, r.cache, raceListKey(seasonID), func(ctx context.Context) ([]race.Race, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return cloneRaces(items), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRaces(items), nil
}

func (r *RaceRepository) ListStartedWithoutResult(ctx context.Context, before time.Time) ([]race.Race, error) {
	return r.next.ListStartedWithoutResult(ctx, before)
}

func (r *RaceRepository) Upsert(ctx context.Context, rc race.Race) (race.Race, error) {
	saved, err := r.next.Upsert(ctx, rc)
	if err != nil {
		return race.Race{}, err
	}
	r.cache.Delete(ctx, raceByIDKey(saved.ID))
	r.cache.Delete(ctx, raceListKey(saved.SeasonID))
	return saved, nil
}

func (r *RaceRepository) SetOfficialResult(ctx context.Context, raceID string, result race.OfficialResult) error {
	if err := r.next.SetOfficialResult(ctx, raceID, result); err != nil {
		return err
	}
	r.cache.Delete(ctx, raceByIDKey(raceID))
	r.cache.DeletePrefix(ctx, "race:list:")
	return nil
}

// RoomRepository caches room lookups by id. Membership and join-code reads
// pass through.
type RoomRepository struct {
	room.Repository
	cache *basecache.Store
}

func NewRoomRepository(next room.Repository, cache *basecache.Store) *RoomRepository {
	return &RoomRepository{Repository: next, cache: cache}
}

func (r *RoomRepository) GetByID(ctx context.Context, roomID string) (room.Room, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, roomByIDKey(roomID), func(ctx context.Context) (cachedLookup[room.Room], error) {
		item, exists, err := r.Repository.GetByID(ctx, roomID)
		if err != nil {
			return cachedLookup[room.Room]{}, err
		}
		return cachedLookup[room.Room]{value: item, exists: exists}, nil
	})
	if err != nil {
		return room.Room{}, false, err
	}
	rm := cached.value
	rm.Scoring = rm.Scoring.Clone()
	return rm, cached.exists, nil
}

func (r *RoomRepository) Update(ctx context.Context, rm room.Room) error {
	if err := r.Repository.Update(ctx, rm); err != nil {
		return err
	}
	r.cache.Delete(ctx, roomByIDKey(rm.ID))
	return nil
}

type cachedLookup[T any] struct {
	value  T
	exists bool
}

func raceByIDKey(raceID string) string {
	return "race:id:" + raceID
}

func raceListKey(seasonID string) string {
	return "race:list:" + seasonID
}

func roomByIDKey(roomID string) string {
	return "room:id:" + roomID
}

func cloneRaces(items []race.Race) []race.Race {
	out := make([]race.Race, 0, len(items))
	for _, item := range items {
		out = append(out, cloneRace(item))
	}
	return out
}

func cloneRace(rc race.Race) race.Race {
	copied := rc
	copied.Result = rc.Result.Clone()
	if rc.Sessions != nil {
		sessions := *rc.Sessions
		copied.Sessions = &sessions
	}
	return copied
}
