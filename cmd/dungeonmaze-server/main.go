package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dungeonmaze/server/internal/api"
	"github.com/dungeonmaze/server/internal/config"
	"github.com/dungeonmaze/server/internal/database"
	"github.com/dungeonmaze/server/internal/performance"
	"github.com/dungeonmaze/server/internal/worldgen"
)

// main starts the dungeon maze game server. Configuration problems and
// invalid world tunables are fatal: the world must be fully configured
// before the first chunk is generated.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := worldgen.Configure(worldgen.Params{
		ChunkSize:        cfg.World.ChunkSize,
		CellSize:         cfg.World.CellSize,
		WallBreakProb:    cfg.World.WallBreakProb,
		StructureGenProb: cfg.World.StructureGenProb,
	}); err != nil {
		log.Fatalf("Invalid world parameters: %v", err)
	}
	log.Printf("World configured: seed=%d, chunk_size=%.0f, cell_size=%.0f, grid=%dx%d",
		cfg.World.Seed, cfg.World.ChunkSize, cfg.World.CellSize, worldgen.GridSize, worldgen.GridSize)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Printf("Connected to database %s on %s:%d", cfg.Database.Database, cfg.Database.Host, cfg.Database.Port)

	profiler := performance.NewProfiler(cfg.Server.IsDevelopment())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	api.SetupAuthRoutes(mux, db, cfg)
	api.SetupChunkRoutes(mux, db, cfg)
	api.SetupPlayerRoutes(mux, db, cfg)
	api.SetupConfigRoutes(mux, cfg)

	wsHandlers := api.NewWebSocketHandlers(db, cfg, profiler)
	go wsHandlers.GetHub().Run()
	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)

	handler := api.CORSMiddleware(api.SecurityHeadersMiddleware(mux))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Dungeon maze server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// healthHandler responds to health check requests.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"dungeonmaze-server"}`)
}
