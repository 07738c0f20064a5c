// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/dnsburst/dns64perf"
	"github.com/dnsburst/dns64perf/log"
)

var (
	serverFlag = cli.StringFlag{
		Name:   "server",
		Usage:  "address of the DNS64 gateway under test",
		EnvVar: "DNS64PERF_SERVER",
	}
	portFlag = cli.UintFlag{
		Name:  "port",
		Value: 53,
		Usage: "UDP port of the gateway",
	}
	subnetFlag = cli.StringFlag{
		Name:  "subnet",
		Value: "198.18.0.0/15",
		Usage: "IPv4 block encoded into the probe names, in CIDR form",
	}
	requestsFlag = cli.UintFlag{
		Name:  "requests",
		Value: 1000,
		Usage: "total number of queries to send",
	}
	burstFlag = cli.UintFlag{
		Name:  "burst",
		Value: 10,
		Usage: "queries sent per burst",
	}
	delayFlag = cli.DurationFlag{
		Name:  "delay",
		Value: 100 * time.Millisecond,
		Usage: "delay between bursts",
	}
	timeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Value: dns64perf.DefaultTimeout,
		Usage: "receive timeout",
	}
	dscpFlag = cli.IntFlag{
		Name:  "dscp",
		Usage: "DSCP value marking the probe traffic",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Value: "dns64perf.csv",
		Usage: "path of the per-query results file",
	}
	logFileFlag = cli.StringFlag{
		Name:  "log-file",
		Usage: "write logs to this rotating file",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "log debug details to stdout",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "dns64perf"
	app.Usage = "measure the performance of a DNS64 gateway"
	app.Version = dns64perf.Version
	app.Flags = []cli.Flag{
		serverFlag, portFlag, subnetFlag, requestsFlag, burstFlag,
		delayFlag, timeoutFlag, dscpFlag, outFlag, logFileFlag, verboseFlag,
	}
	app.Action = run
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	if err := initLog(c); err != nil {
		return err
	}
	defer func() { _ = log.Logger.Sync() }()

	tester, err := dns64perf.NewTester(cfg, log.Logger)
	if err != nil {
		return err
	}
	defer tester.Close()

	if err := tester.Run(); err != nil {
		return err
	}

	stats := dns64perf.ComputeStats(tester.Records())
	stats.Report(os.Stdout)

	return dns64perf.WriteResults(c.String("out"), cfg, tester.Records())
}

func buildConfig(c *cli.Context) (dns64perf.Config, error) {
	var cfg dns64perf.Config

	server := net.ParseIP(c.String("server"))
	if server == nil {
		return cfg, fmt.Errorf("invalid server address: %q", c.String("server"))
	}

	_, block, err := net.ParseCIDR(c.String("subnet"))
	if err != nil {
		return cfg, fmt.Errorf("invalid subnet: %v", err)
	}
	base := block.IP.To4()
	if base == nil {
		return cfg, fmt.Errorf("the subnet must be an IPv4 block: %s", block)
	}
	ones, _ := block.Mask.Size()

	cfg = dns64perf.Config{
		Server:     server,
		Port:       uint16(c.Uint("port")),
		BaseAddr:   binary.BigEndian.Uint32(base),
		Netmask:    uint8(ones),
		Requests:   uint32(c.Uint("requests")),
		BurstSize:  uint32(c.Uint("burst")),
		BurstDelay: c.Duration("delay"),
		Timeout:    c.Duration("timeout"),
		DSCP:       c.Int("dscp"),
	}
	return cfg, nil
}

func initLog(c *cli.Context) error {
	config := log.Config{
		Stdout: c.Bool("verbose"),
		File:   c.String("log-file"),
		Debug:  c.Bool("verbose"),
	}
	if !config.Stdout && config.File == "" {
		// Quiet run: only the summary and the results file.
		return nil
	}
	return log.Init(config)
}
