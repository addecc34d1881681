package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tedsuo/ifrit"
	"github.com/tedsuo/ifrit/grouper"
	"github.com/tedsuo/ifrit/sigmon"

	"capacityengine/cloud"
	"capacityengine/collection"
	"capacityengine/config"
	"capacityengine/engine"
	"capacityengine/evaluator"
	"capacityengine/forecaster"
	"capacityengine/healthendpoint"
	"capacityengine/helpers"
	"capacityengine/scheduler"
)

func main() {
	var path string
	flag.StringVar(&path, "c", "", "config file")
	flag.Parse()
	if path == "" {
		fmt.Fprintln(os.Stderr, "missing config file")
		os.Exit(1)
	}

	conf, err := loadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	logger := helpers.InitLoggerFromConfig(&conf.Logging, "capacityengine")
	eClock := clock.NewClock()

	store := collection.NewMetricsStore(eClock, conf.SampleCapacityPerRegion())
	provider := cloud.NewSimulatedMetricsProvider(logger, eClock, rand.NewSource(time.Now().UnixNano()))
	backend := cloud.NewLocalBackend(logger, eClock, 50*time.Millisecond)

	scalingEngine := engine.NewScalingEngine(logger, eClock, conf, backend, store)
	if err := scalingEngine.InitializeRegions(); err != nil {
		logger.Error("failed-to-initialize-regions", err)
		os.Exit(1)
	}

	ensemble := forecaster.NewEnsemble(logger, conf.Forecast.Step, conf.Forecast.WindowCount, forecaster.DefaultModels())
	policyEvaluator := evaluator.NewEvaluator(logger)

	collector := scheduler.NewCollector(logger, eClock, conf.Scheduler.CollectInterval, conf.Scheduler.SampleRetryTimeout, provider, store, scalingEngine)
	evaluationManager := scheduler.NewEvaluationManager(logger, eClock, conf.Scheduler.EvaluateInterval, conf.Scheduler.EvaluationWindow, store, ensemble, policyEvaluator, scalingEngine)
	modelTrainer := scheduler.NewModelTrainer(logger, eClock, conf.Scheduler.RetrainInterval, conf.Forecast.TrainingWindow, store, ensemble, scalingEngine)

	engineRunner := ifrit.RunFunc(func(signals <-chan os.Signal, ready chan<- struct{}) error {
		collector.Start()
		modelTrainer.Start()
		evaluationManager.Start()
		close(ready)

		<-signals
		evaluationManager.Stop()
		modelTrainer.Stop()
		collector.Stop()
		return nil
	})

	promRegistry := prometheus.NewRegistry()
	healthendpoint.RegisterCollectors(promRegistry, scalingEngine.Collectors(), true, logger.Session("prometheus"))
	healthServer, err := healthendpoint.NewServer(logger.Session("health-server"), conf.Health.Port, promRegistry)
	if err != nil {
		logger.Error("failed-to-create-health-server", err)
		os.Exit(1)
	}

	members := grouper.Members{
		{Name: "engine", Runner: engineRunner},
		{Name: "health_server", Runner: healthServer},
	}
	monitor := ifrit.Invoke(sigmon.New(grouper.NewOrdered(os.Interrupt, members)))
	logger.Info("started")

	err = <-monitor.Wait()
	if err != nil {
		logger.Error("exited-with-failure", err)
		os.Exit(1)
	}
	logger.Info("exited")
}

func loadConfig(path string) (*config.Config, error) {
	configFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %q: %s", path, err.Error())
	}
	defer configFile.Close()

	conf, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %s", path, err.Error())
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate configuration: %s", err.Error())
	}
	return conf, nil
}
