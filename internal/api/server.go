// Package api provides the read-only HTTP API for observing world state.
// The simulation core exposes no command-submission surface — every GET
// endpoint here is a pure read over the current simworld.World and its
// event log; the only admin (bearer-token) action is triggering a manual
// persistence save, which mutates storage, not the simulation.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/llm"
	"github.com/talgya/mini-world/internal/persistence"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/simworld"
)

// Server serves a World's state over HTTP. All GET routes read directly
// from World and DB; nothing here issues commands into the pipeline.
type Server struct {
	World    *simworld.World
	DB       *persistence.DB
	LLM      *llm.Client
	Port     int
	AdminKey string // Bearer token for the manual-save admin endpoint. Empty = disabled.

	// Cached chronicle digest (regenerated at most once per sim-month).
	digestMu       sync.Mutex
	cachedDigest   *llm.Newspaper
	lastDigestTick uint64

	// Cached biographies (person id → cached bio).
	bioMu    sync.Mutex
	bioCache map[uint64]cachedBio
}

type cachedBio struct {
	Biography   string `json:"biography"`
	GeneratedAt string `json:"generated_at"`
}

// Start begins serving the HTTP API in a background goroutine.
func (s *Server) Start() {
	if s.bioCache == nil {
		s.bioCache = make(map[uint64]cachedBio)
	}

	digestLimiter := NewRateLimiter(30, time.Hour)
	bioLimiter := NewRateLimiter(10, time.Hour)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/regions", s.handleRegions)
	mux.HandleFunc("/api/v1/settlements", s.handleSettlements)
	mux.HandleFunc("/api/v1/settlement/", s.handleSettlementDetail)
	mux.HandleFunc("/api/v1/factions", s.handleFactions)
	mux.HandleFunc("/api/v1/faction/", s.handleFactionDetail)
	mux.HandleFunc("/api/v1/persons", s.handlePersons)
	mux.HandleFunc("/api/v1/person/", RateLimitMiddleware(bioLimiter, s.handlePersonDetail))
	mux.HandleFunc("/api/v1/armies", s.handleArmies)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/chronicle", RateLimitMiddleware(digestLimiter, s.handleChronicle))
	mux.HandleFunc("/api/v1/map", s.handleMap)
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	mux.HandleFunc("/api/v1/admin/save", s.adminOnly(s.handleAdminSave))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request carries a valid admin token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly gates a handler behind the admin bearer token. The only admin
// action exposed is a manual persistence save — it touches storage, never
// the world in memory.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no admin key configured)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"clock":       s.World.Clock.String(),
		"year":        s.World.Clock.Year(),
		"month":       s.World.Clock.Month(),
		"persons":     len(s.World.Persons),
		"factions":    len(s.World.Factions),
		"settlements": len(s.World.Settlements),
		"regions":     len(s.World.Regions),
		"armies":      len(s.World.Armies),
		"events":      len(s.World.Events.Events),
	}
	writeJSON(w, status)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	out := make([]*simworld.Region, 0, len(s.World.Regions))
	for _, id := range s.World.Entities.SortedIDs(entitymap.KindRegion) {
		out = append(out, s.World.Regions[id])
	}
	writeJSON(w, out)
}

func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	out := make([]*simworld.Settlement, 0, len(s.World.Settlements))
	for _, id := range s.World.Entities.SortedIDs(entitymap.KindSettlement) {
		out = append(out, s.World.Settlements[id])
	}
	writeJSON(w, out)
}

func (s *Server) handleSettlementDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r.URL.Path, "/api/v1/settlement/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, ok := s.World.Entities.Get(entitymap.KindSettlement, id)
	if !ok {
		http.Error(w, "settlement not found", http.StatusNotFound)
		return
	}
	sett := v.(*simworld.Settlement)

	residents := s.World.LocatedIn.SourcesOf(id)
	writeJSON(w, map[string]any{
		"settlement": sett,
		"residents":  residents,
	})
}

func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	out := make([]*simworld.Faction, 0, len(s.World.Factions))
	for _, id := range s.World.Entities.SortedIDs(entitymap.KindFaction) {
		out = append(out, s.World.Factions[id])
	}
	writeJSON(w, out)
}

func (s *Server) handleFactionDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r.URL.Path, "/api/v1/faction/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, ok := s.World.Entities.Get(entitymap.KindFaction, id)
	if !ok {
		http.Error(w, "faction not found", http.StatusNotFound)
		return
	}
	f := v.(*simworld.Faction)

	members := s.World.MemberOf.SourcesOf(id)
	leaders := s.World.LeaderOf.SourcesOf(id)
	var ownedSettlements []uint64
	for _, sid := range s.World.SortedSettlementIDs() {
		if s.World.Settlements[sid].OwnerFactionID == id {
			ownedSettlements = append(ownedSettlements, sid)
		}
	}

	writeJSON(w, map[string]any{
		"faction":           f,
		"members":           members,
		"leaders":           leaders,
		"owned_settlements": ownedSettlements,
		"allies":            s.World.Relations.Partners(relations.Ally, id),
		"enemies":           s.World.Relations.Partners(relations.Enemy, id),
	})
}

func (s *Server) handlePersons(w http.ResponseWriter, r *http.Request) {
	out := make([]*simworld.Person, 0, len(s.World.Persons))
	for _, id := range s.World.Entities.SortedIDs(entitymap.KindPerson) {
		out = append(out, s.World.Persons[id])
	}
	writeJSON(w, out)
}

func (s *Server) handlePersonDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r.URL.Path, "/api/v1/person/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, ok := s.World.Entities.Get(entitymap.KindPerson, id)
	if !ok {
		http.Error(w, "person not found", http.StatusNotFound)
		return
	}
	p := v.(*simworld.Person)

	bio := s.biographyFor(id, p)
	settlementID, _ := s.World.LocatedIn.Get(id)
	factionID, _ := s.World.MemberOf.Get(id)

	writeJSON(w, map[string]any{
		"person":        p,
		"settlement_id": settlementID,
		"faction_id":    factionID,
		"biography":     bio,
	})
}

func (s *Server) biographyFor(id uint64, p *simworld.Person) string {
	s.bioMu.Lock()
	if cached, ok := s.bioCache[id]; ok {
		s.bioMu.Unlock()
		return cached.Biography
	}
	s.bioMu.Unlock()

	settlementID, hasSettlement := s.World.LocatedIn.Get(id)
	factionID, hasFaction := s.World.MemberOf.Get(id)

	ctx := llm.BiographyContext{
		Name:     p.Name,
		Role:     personRoleName(p.Role),
		Prestige: p.Prestige,
		Literacy: p.Literacy,
	}
	if hasSettlement {
		if sett, ok := s.World.Settlements[settlementID]; ok {
			ctx.Settlement = sett.Name
		}
	}
	if hasFaction {
		if f, ok := s.World.Factions[factionID]; ok {
			ctx.Faction = f.Name
		}
	}

	bio, err := llm.GenerateBiography(s.LLM, ctx)
	if err != nil || bio == "" {
		return ""
	}

	s.bioMu.Lock()
	s.bioCache[id] = cachedBio{Biography: bio, GeneratedAt: time.Now().UTC().Format(time.RFC3339)}
	s.bioMu.Unlock()
	return bio
}

func (s *Server) handleArmies(w http.ResponseWriter, r *http.Request) {
	out := make([]*simworld.Army, 0, len(s.World.Armies))
	for _, id := range s.World.SortedArmyIDs() {
		out = append(out, s.World.Armies[id])
	}
	writeJSON(w, out)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events := s.World.Events.Events
	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	writeJSON(w, events[start:])
}

func (s *Server) handleChronicle(w http.ResponseWriter, r *http.Request) {
	s.digestMu.Lock()
	if s.cachedDigest != nil && s.World.Clock.Minute == s.lastDigestTick {
		cached := s.cachedDigest
		s.digestMu.Unlock()
		writeJSON(w, cached)
		return
	}
	s.digestMu.Unlock()

	data := s.buildChronicleData()
	digest, err := llm.GenerateNewspaper(s.LLM, data)
	if err != nil {
		http.Error(w, "failed to generate chronicle", http.StatusInternalServerError)
		return
	}

	s.digestMu.Lock()
	s.cachedDigest = digest
	s.lastDigestTick = s.World.Clock.Minute
	s.digestMu.Unlock()

	writeJSON(w, digest)
}

func (s *Server) buildChronicleData() *llm.NewspaperData {
	data := &llm.NewspaperData{
		ClockString: s.World.Clock.String(),
		Settlements: len(s.World.Settlements),
	}

	var totalPop, totalWealth uint64
	for _, id := range s.World.SortedSettlementIDs() {
		sett := s.World.Settlements[id]
		totalPop += sett.Population.Total
	}
	for _, id := range s.World.SortedFactionIDs() {
		totalWealth += s.World.Factions[id].Treasury
	}
	data.Population = int(totalPop)
	data.TotalWealth = totalWealth

	events := s.World.Events.Events
	start := 0
	if len(events) > 200 {
		start = len(events) - 200
	}
	for _, e := range events[start:] {
		switch e.Kind {
		case eventlog.KindDeath:
			data.Deaths = append(data.Deaths, e.Description)
		case eventlog.KindBirth:
			data.Births = append(data.Births, e.Description)
		case eventlog.KindBanditRaid, eventlog.KindTradeRouteRaided, eventlog.KindCoupAttempted:
			data.Crimes = append(data.Crimes, e.Description)
		case eventlog.KindWarDeclared, eventlog.KindWarEnded, eventlog.KindAllianceFormed, eventlog.KindAllianceBetrayed:
			data.Political = append(data.Political, e.Description)
		default:
			data.Social = append(data.Social, e.Description)
		}
	}

	const topN = 5
	type settRank struct {
		id  uint64
		pop uint64
	}
	ranks := make([]settRank, 0, len(s.World.Settlements))
	for _, id := range s.World.SortedSettlementIDs() {
		ranks = append(ranks, settRank{id: id, pop: s.World.Settlements[id].Population.Total})
	}
	for i := 0; i < len(ranks) && i < topN; i++ {
		best := i
		for j := i + 1; j < len(ranks); j++ {
			if ranks[j].pop > ranks[best].pop {
				best = j
			}
		}
		ranks[i], ranks[best] = ranks[best], ranks[i]
		sett := s.World.Settlements[ranks[i].id]
		gov := "unaligned"
		if f, ok := s.World.Factions[sett.OwnerFactionID]; ok {
			gov = governmentName(f.Government)
		}
		data.TopSettlements = append(data.TopSettlements, llm.SettlementSummary{
			Name: sett.Name, Population: sett.Population.Total,
			Treasury: 0, Governance: gov, Prosperity: sett.Prosperity,
		})
	}

	return data
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	type regionEntry struct {
		ID       uint64  `json:"id"`
		Name     string  `json:"name"`
		Terrain  uint8   `json:"terrain"`
		Coastal  bool    `json:"coastal"`
		Forested bool    `json:"forested"`
		Arid     bool    `json:"arid"`
		Riverine bool    `json:"riverine"`
		Rugged   bool    `json:"rugged"`
		Neighbors []uint64 `json:"neighbors"`
	}
	type settlementEntry struct {
		ID         uint64 `json:"id"`
		Name       string `json:"name"`
		RegionID   uint64 `json:"region_id"`
		Population uint64 `json:"population"`
	}

	regions := make([]regionEntry, 0, len(s.World.Regions))
	for _, id := range s.World.SortedRegionIDs() {
		reg := s.World.Regions[id]
		regions = append(regions, regionEntry{
			ID: id, Name: reg.Name, Terrain: uint8(reg.Terrain),
			Coastal: reg.Coastal, Forested: reg.Forested, Arid: reg.Arid,
			Riverine: reg.Riverine, Rugged: reg.Rugged, Neighbors: reg.Neighbors,
		})
	}

	settlements := make([]settlementEntry, 0, len(s.World.Settlements))
	for _, id := range s.World.SortedSettlementIDs() {
		sett := s.World.Settlements[id]
		settlements = append(settlements, settlementEntry{
			ID: id, Name: sett.Name, RegionID: sett.RegionID, Population: sett.Population.Total,
		})
	}

	writeJSON(w, map[string]any{
		"regions":     regions,
		"settlements": settlements,
	})
}

// handleStream polls the event log for newly appended rows and relays them
// as server-sent events. No pub/sub channel exists on eventlog.Log since
// the log is a plain append-only slice written only by the applicator
// between ticks; polling its length is sufficient because a tick never
// removes events.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	events := s.World.Events.Events
	start := len(events) - 50
	if start < 0 {
		start = 0
	}
	for _, e := range events[start:] {
		writeSSEEvent(w, e)
	}
	flusher.Flush()

	poll := time.NewTicker(2 * time.Second)
	defer poll.Stop()
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	seen := len(events)
	for {
		select {
		case <-poll.C:
			current := s.World.Events.Events
			if len(current) > seen {
				for _, e := range current[seen:] {
					writeSSEEvent(w, e)
				}
				seen = len(current)
				flusher.Flush()
			}
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleAdminSave(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.SaveWorld(s.World); err != nil {
		http.Error(w, "save failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"saved": true, "clock": s.World.Clock.String()})
}

func writeSSEEvent(w http.ResponseWriter, e eventlog.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func idFromPath(path, prefix string) (uint64, error) {
	raw := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func personRoleName(r simworld.PersonRole) string {
	switch r {
	case simworld.RoleNoble:
		return "noble"
	case simworld.RoleLeader:
		return "leader"
	case simworld.RoleCleric:
		return "cleric"
	case simworld.RoleMerchant:
		return "merchant"
	case simworld.RoleSoldier:
		return "soldier"
	case simworld.RoleScholar:
		return "scholar"
	case simworld.RoleOutlaw:
		return "outlaw"
	default:
		return "commoner"
	}
}

func governmentName(g simworld.GovernmentType) string {
	switch g {
	case simworld.GovElective:
		return "elective council"
	case simworld.GovChieftain:
		return "chieftaincy"
	case simworld.GovBandit:
		return "bandit confederation"
	case simworld.GovMercenary:
		return "mercenary compact"
	default:
		return "hereditary rule"
	}
}
