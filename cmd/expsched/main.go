/**
 * Copyright 2026 Expsched Authors. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

// Starting point for the expsched cmd
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/expsched/expsched/lib/catalog"
	"github.com/expsched/expsched/lib/config"
	"github.com/expsched/expsched/lib/log"
	"github.com/expsched/expsched/lib/monitoring"
	"github.com/expsched/expsched/lib/scheduler"
	"github.com/expsched/expsched/lib/scheduler/remote"
	"github.com/expsched/expsched/lib/util"
)

func main() {
	var cfgPath string
	var dataDir string
	var tmpDir string
	var dryRun bool
	var verbose bool
	var useSkypilot bool
	var useSlurm bool
	var noUseSlurm bool
	var cloudTemplate string
	var cloudAdapterName string
	var cloudLauncher string
	var execInterpreter string
	var metricsAddr string
	var logVerbosity string

	cmd := &cobra.Command{
		Use:   "expsched [expfile]",
		Short: "Resource-aware local experiment scheduler",
		Long:  `expsched runs a catalog of commands against local CPU, RAM and GPU budgets, launching each only once its inputs exist and resources are free.`,
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(_ /*cmd*/ *cobra.Command, _ /*args*/ []string) (err error) {
			if verbose {
				logVerbosity = "debug"
			}
			if err = log.SetVerbosity(logVerbosity); err != nil {
				return err
			}
			return log.InitLoggers()
		},
		RunE: func(_ /*cmd*/ *cobra.Command, args []string) (err error) {
			cfg := &config.Config{}
			if err = cfg.ReadConfigFile(cfgPath); err != nil {
				return log.Errorf("Scheduler: unable to apply config file %s: %v", cfgPath, err)
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if tmpDir != "" {
				cfg.TmpDir = tmpDir
			}

			expfile := "exps.yaml"
			if len(args) > 0 {
				expfile = args[0]
			}

			if cfg.LockFile != "" {
				if err := util.WaitLock(cfg.LockFile, func() {}); err != nil {
					return log.Errorf("Scheduler: failed waiting on lock file %s: %v", cfg.LockFile, err)
				}
				if err := util.CreateLock(cfg.LockFile); err != nil {
					return err
				}
				defer os.Remove(cfg.LockFile)
			}

			var loader catalog.Loader
			if execInterpreter != "" {
				loader = &catalog.ExecLoader{Interpreter: execInterpreter, Path: expfile}
			} else {
				loader = &catalog.YAMLLoader{Path: expfile}
			}

			cluster := &remote.ClusterAdapter{}
			if useSlurm && noUseSlurm {
				return log.Error("Scheduler: --use-slurm and --no-use-slurm are mutually exclusive")
			}
			slurmActive := useSlurm
			if !useSlurm && !noUseSlurm && cluster.Available() {
				return log.Error("Scheduler: a Slurm cluster is available but neither --use-slurm nor --no-use-slurm was given; pick one")
			}
			if slurmActive && !cluster.Available() {
				return log.Error("Scheduler: --use-slurm given but srun is not on PATH")
			}

			var cloud *remote.CloudAdapter
			if useSkypilot {
				if cloudTemplate == "" || cloudLauncher == "" {
					return log.Error("Scheduler: --use-skypilot requires --cloud-template and --cloud-launcher")
				}
				cloud = &remote.CloudAdapter{Launcher: cloudLauncher, TemplatePath: cloudTemplate}
			}

			monCfg := &monitoring.Config{}
			monCfg.InitDefaults()
			monCfg.Enabled = metricsAddr != ""
			monitor, err := monitoring.Initialize(context.Background(), monCfg)
			if err != nil {
				return log.Errorf("Scheduler: failed to initialize monitoring: %v", err)
			}
			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil && err != http.ErrServerClosed { // #nosec G114 -- metrics endpoint has no deadline requirement
						log.Warnf("Scheduler: metrics server stopped: %v", err)
					}
				}()
				log.Infof("Scheduler: metrics exposed on %s/metrics", metricsAddr)
			}

			s := scheduler.NewSchedulerState(cfg.DataDir, cfg.EffectiveTmpDir(), cfg.VMPercentCap, cfg.MaxConcurrent, cfg.MaxCoreAlloc)
			s.Metrics = monitor.GetMetrics()
			if slurmActive {
				s.Cluster = cluster
			}
			if cloud != nil {
				s.Cloud = cloud
			}

			devices := scheduler.ProbeGPUs()
			s.SetGPUs(devices, scheduler.ProbeFreeVRAM(devices))

			remoteCloudTemplate := ""
			if cloud != nil {
				remoteCloudTemplate = cloudAdapterName
			}
			opts := scheduler.Options{
				DryRun: dryRun,
				Remote: scheduler.RemoteMode{SlurmActive: slurmActive, CloudTemplate: remoteCloudTemplate},
			}

			if err := scheduler.Run(s, loader, opts); err != nil {
				return log.Errorf("Scheduler: run failed: %v", err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgPath, "cfg", "c", "", "yaml configuration file")
	flags.StringVarP(&dataDir, "data-dir", "d", "", "directory authoritative outputs are published to (default ./data)")
	flags.StringVarP(&tmpDir, "tmp-dir", "t", "", "staging directory for in-progress outputs (default data-dir + \"_tmp\")")
	flags.BoolVar(&dryRun, "dry-run", false, "print each command's shell form in launch order and exit, without running anything")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	flags.BoolVar(&useSkypilot, "use-skypilot", false, "route commands declaring a matching remote_template through the cloud sandbox adapter")
	flags.BoolVar(&useSlurm, "use-slurm", false, "route all commands through srun")
	flags.BoolVar(&noUseSlurm, "no-use-slurm", false, "never use Slurm even if a cluster is available")
	flags.StringVar(&cloudTemplate, "cloud-template", "", "YAML template path for the cloud sandbox adapter")
	flags.StringVar(&cloudAdapterName, "cloud-adapter-name", "skypilot", "remote_template value that routes a command through the cloud sandbox adapter")
	flags.StringVar(&cloudLauncher, "cloud-launcher", "", "launcher sub-command for the cloud sandbox adapter (e.g. sky)")
	flags.StringVar(&execInterpreter, "catalog-interpreter", "", "if set, expfile is executed with this interpreter rather than parsed as YAML")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "if set, expose Prometheus metrics at this address (e.g. :9090)")
	flags.StringVar(&logVerbosity, "log-verbosity", "info", "log level (debug, info, warn, error)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
