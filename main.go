package main

import (
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telarmx/artisan-finder/pkg/auth"
	"github.com/telarmx/artisan-finder/pkg/catalog"
	"github.com/telarmx/artisan-finder/pkg/client"
	"github.com/telarmx/artisan-finder/pkg/common"
	"github.com/telarmx/artisan-finder/pkg/server"
	"github.com/telarmx/artisan-finder/pkg/tracking"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var keepSearch = flag.Bool("keep-search-on-filter-change", false, "keep a committed search active when a facet filter changes")

var upstreamUrl = os.Getenv("STOREFRONT_API_URL")
var rabbitUrl = os.Getenv("RABBIT_URL")
var rabbitPrefix = os.Getenv("RABBIT_PREFIX")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var authSecret = os.Getenv("AUTH_TOKEN_SECRET")
var listenAddress = ":8080"
var debugAddress = ":8081"

const sessionTtl = 30 * time.Minute

func main() {
	flag.Parse()

	if upstreamUrl == "" {
		log.Fatalf("No storefront api url provided")
	}
	if rabbitPrefix == "" {
		rabbitPrefix = "global"
	}

	sessionOpts := []catalog.Option{}
	if *keepSearch {
		sessionOpts = append(sessionOpts, catalog.KeepSearchOnFacetChange())
	}

	srv := &server.WebServer{
		Client:   client.NewStorefrontClient(upstreamUrl),
		Sessions: server.NewSessionRegistry(sessionTtl, sessionOpts...),
	}

	if redisUrl != "" {
		srv.Cache = server.NewCache(redisUrl, redisPassword, 0)
		log.Printf("List cache enabled, url: %s", redisUrl)
	}

	if rabbitUrl != "" {
		trk, err := tracking.NewRabbitTracking(rabbitUrl, rabbitPrefix)
		if err != nil {
			log.Fatalf("Failed to create rabbit tracking: %v", err)
		}
		srv.Tracking = trk
		log.Println("Tracking enabled")
	}

	if authSecret != "" {
		srv.Auth = auth.NewTokenVerifier(authSecret)
	} else {
		log.Println("AUTH_TOKEN_SECRET not set, admin surface is open")
	}

	mux := http.NewServeMux()
	mux.Handle("/admin/", http.StripPrefix("/admin", srv.AdminHandler()))
	mux.Handle("/api/", http.StripPrefix("/api", srv.ClientHandler()))

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("Profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	go func() {
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	apiServer := common.NewServerWithTimeouts(&http.Server{Addr: listenAddress, Handler: mux}, timeouts)

	common.RunServerWithShutdown(apiServer, "artisan-finder api", timeouts.Shutdown, timeouts.Hook)
}
