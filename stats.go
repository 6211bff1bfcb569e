package gobasic

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
)

//
// Per-run CPU statistics, printed when a run ends with STATS on.
// User and system time come from /proc/self/stat, scaled by the
// clock tick rate
//

type cpuTimes struct {
	utime, stime int64
}

func readCPUTimes() cpuTimes {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || clktck == 0 {
		return cpuTimes{}
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return cpuTimes{}
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return cpuTimes{}
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return cpuTimes{}
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return cpuTimes{}
	}

	return cpuTimes{utime: utime / clktck, stime: stime / clktck}
}

func (s *Session) printRunStats() {

	elapsed := time.Since(s.runStart)
	now := readCPUTimes()

	s.out.Write(fmt.Sprintf(
		"CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(now.utime-s.runTicks.utime),
		formatCPUTime(now.stime-s.runTicks.stime)))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t < 0 {
		t = 0
	}

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}
