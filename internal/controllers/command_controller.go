package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"abd/internal/models"
	"abd/internal/providers"
	"abd/internal/services"
	"abd/internal/structures"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// CommandController is the HTTP face of the daemon: transport adapters
// POST inbound chat events here and render the returned text themselves.
type CommandController struct {
	logger  providers.Logger
	command services.CommandServiceInterface
	ledger  services.LedgerServiceInterface
	cache   providers.CacheProviderInterface
}

func NewCommandController(
	logger providers.Logger,
	command services.CommandServiceInterface,
	ledgerService services.LedgerServiceInterface,
	cache providers.CacheProviderInterface,
) *CommandController {
	return &CommandController{
		logger:  logger,
		command: command,
		ledger:  ledgerService,
		cache:   cache,
	}
}

func (cc *CommandController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := cc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// ReceiveCommand handles POST /command: one inbound chat event in, one
// CommandResult out. Always 200 once the event decodes; user-level
// failures travel inside the result, not as HTTP status.
func (cc *CommandController) ReceiveCommand(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var event structures.InboundEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if event.UserID == "" || event.Command == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result := cc.command.Handle(&event)

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

type userSummaryResponse struct {
	UserID        string                                          `json:"user_id"`
	Username      string                                          `json:"username"`
	Week          models.WeekKey                                  `json:"week"`
	Summary       map[models.ActivityCode]*models.ActivitySummary `json:"summary"`
	CurrentStreak int                                             `json:"current_streak"`
	LongestStreak int                                             `json:"longest_streak"`
	TotalLogs     int                                             `json:"total_logs"`
}

// GetUserSummary handles GET /users/summary?user=.
func (cc *CommandController) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	week := models.WeekKeyOf(cc.ledger.Now())
	cc.serveFromCacheOrCompute(w, "summary:"+userID+":"+string(week), func() (any, error) {
		doc := cc.ledger.Snapshot()
		resp := &userSummaryResponse{
			UserID:  userID,
			Week:    week,
			Summary: models.WeeklySummary(doc, userID, week),
		}
		if user, ok := doc.Users[userID]; ok {
			resp.Username = user.Username
			resp.CurrentStreak = user.CurrentStreak
			resp.LongestStreak = user.LongestStreak
			resp.TotalLogs = user.TotalLogs
		}
		return resp, nil
	})
}

// GetWeekStats handles GET /stats/week: the all-user weekly picture.
func (cc *CommandController) GetWeekStats(w http.ResponseWriter, r *http.Request) {
	week := models.WeekKeyOf(cc.ledger.Now())
	cc.serveFromCacheOrCompute(w, "week:"+string(week), func() (any, error) {
		return models.ComputeWeekStats(cc.ledger.Snapshot(), week), nil
	})
}

type analyticsResponse struct {
	UserID        string         `json:"user_id"`
	Week          models.WeekKey `json:"week"`
	CurrentUnits  int            `json:"current_units"`
	PreviousUnits int            `json:"previous_units"`
	Trend         models.Trend   `json:"trend"`
	ChangePercent float64        `json:"change_percent"`
	BestWeekday   string         `json:"best_weekday,omitempty"`
	BestAverage   float64        `json:"best_average,omitempty"`
	TopPair       *pairResponse  `json:"top_pair,omitempty"`
	LevelScore    float64        `json:"level_score"`
	Level         string         `json:"level"`
}

type pairResponse struct {
	First  models.ActivityCode `json:"first"`
	Second models.ActivityCode `json:"second"`
	Count  int                 `json:"count"`
}

// GetAnalytics handles GET /analytics?user=.
func (cc *CommandController) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	now := cc.ledger.Now()
	week := models.WeekKeyOf(now)
	cc.serveFromCacheOrCompute(w, "analytics:"+userID+":"+string(week), func() (any, error) {
		doc := cc.ledger.Snapshot()

		resp := &analyticsResponse{
			UserID:        userID,
			Week:          week,
			CurrentUnits:  models.WeekdayUnits(doc, userID, week),
			PreviousUnits: models.WeekdayUnits(doc, userID, models.WeekKeyOf(now.AddDate(0, 0, -7))),
		}
		resp.Trend, resp.ChangePercent = models.WeeklyTrend(resp.CurrentUnits, resp.PreviousUnits)

		if day, avg, ok := models.BestWeekday(doc, userID, now, 4); ok {
			resp.BestWeekday = day.String()
			resp.BestAverage = avg
		}
		if pair, count, ok := models.TopActivityPair(doc, userID, now, 4, 3); ok {
			resp.TopPair = &pairResponse{First: pair.First, Second: pair.Second, Count: count}
		}

		if user, ok := doc.Users[userID]; ok {
			resp.LevelScore = models.LevelScore(user)
			resp.Level = models.LevelName(resp.LevelScore)
		}
		return resp, nil
	})
}
