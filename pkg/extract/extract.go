package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TextUnknown is the placeholder for textual metrics that could not be
// determined.
const TextUnknown = "N/A"

var (
	containerUptimeRe = regexp.MustCompile(`Up\s+(.+?)(?:\s+\(|$)`)
	connectingRe      = regexp.MustCompile(`Connecting:\s*(\d+)`)
	connectedRe       = regexp.MustCompile(`Connected:\s*(\d+)`)
	upVolumeRe        = regexp.MustCompile(`Up:\s*([\d.]+)\s*(GB|MB|KB)`)
	downVolumeRe      = regexp.MustCompile(`Down:\s*([\d.]+)\s*(GB|MB|KB)`)
	bootstrapRe       = regexp.MustCompile(`Bootstrapped (\d+)%`)
	memUsageRe        = regexp.MustCompile(`([\d.]+)\s*(KiB|MiB|GiB|KB|MB|GB)`)
)

// ParseContainerList parses `docker ps -a` output formatted as
// name|status lines into a name to status map. Malformed lines are
// skipped.
func ParseContainerList(output string) map[string]string {
	containers := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, status, ok := strings.Cut(line, "|")
		if !ok || name == "" {
			continue
		}
		containers[name] = strings.TrimSpace(status)
	}
	return containers
}

// ContainerStatus reports whether the named container is running and,
// if so, its human-readable uptime taken from the status column. A
// container that is absent or not up yields (false, TextUnknown).
func ContainerStatus(containers map[string]string, name string) (bool, string) {
	status, ok := containers[name]
	if !ok || !strings.HasPrefix(status, "Up") {
		return false, TextUnknown
	}
	if m := containerUptimeRe.FindStringSubmatch(status); m != nil {
		return true, m[1]
	}
	return true, TextUnknown
}

// TunnelStats holds the metrics extracted from a tunnel daemon stats
// log line.
type TunnelStats struct {
	// Connecting is the number of clients mid-handshake.
	Connecting int
	// Connected is the number of established client connections.
	Connected int
	// UpGB and DownGB are the transferred volumes normalized to GB.
	UpGB   float64
	DownGB float64
	// UpDisplay and DownDisplay are the volumes as shown in the log,
	// preserved for direct display.
	UpDisplay   string
	DownDisplay string
}

// ParseTunnelStats extracts connection counts and transfer volumes
// from a stats log line such as
//
//	[STATS] Connecting: 17 | Connected: 226 | Up: 7.1 GB | Down: 74.1 GB
//
// Each metric degrades independently: a count that is absent stays 0
// and a volume that is absent stays 0 with an "N/A" display.
func ParseTunnelStats(line string) TunnelStats {
	stats := TunnelStats{
		UpDisplay:   TextUnknown,
		DownDisplay: TextUnknown,
	}
	if line == "" {
		return stats
	}

	if m := connectingRe.FindStringSubmatch(line); m != nil {
		stats.Connecting, _ = strconv.Atoi(m[1])
	}
	if m := connectedRe.FindStringSubmatch(line); m != nil {
		stats.Connected, _ = strconv.Atoi(m[1])
	}
	if m := upVolumeRe.FindStringSubmatch(line); m != nil {
		stats.UpGB, stats.UpDisplay = parseVolume(m[1], m[2])
	}
	if m := downVolumeRe.FindStringSubmatch(line); m != nil {
		stats.DownGB, stats.DownDisplay = parseVolume(m[1], m[2])
	}
	return stats
}

// parseVolume normalizes a value and unit to GB and formats the
// display string the way the daemon logs it.
func parseVolume(value, unit string) (float64, string) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, TextUnknown
	}
	display := fmt.Sprintf("%.1f %s", v, unit)
	switch unit {
	case "KB":
		return v / 1024 / 1024, display
	case "MB":
		return v / 1024, display
	default:
		return v, display
	}
}

// ParseBootstrapPercent extracts the bootstrap progress from a relay
// log line such as "... Bootstrapped 100% (done) ...". Output with no
// bootstrap marker yields 0, so a rotated log resets the metric rather
// than sticking at its last value.
func ParseBootstrapPercent(line string) int {
	if m := bootstrapRe.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// ParseCount parses a bare integer such as grep -c output. Anything
// unparsable yields 0.
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseCores parses a CPU core count, defaulting to 1 so later
// per-core division never divides by zero.
func ParseCores(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseMemTotalKB converts a /proc/meminfo MemTotal value in kB to
// whole MB, defaulting to 0 when unavailable.
func ParseMemTotalKB(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n / 1024
}

// ParseUptime normalizes `uptime -p` style output by stripping the
// leading "up " prefix. Empty output yields TextUnknown.
func ParseUptime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return TextUnknown
	}
	return strings.TrimPrefix(s, "up ")
}

// ResourceUsage holds a container's normalized resource consumption.
type ResourceUsage struct {
	// CPUPercent is the container CPU load divided by the host core
	// count, so a fully loaded 4-core host reads near 100 rather than
	// 400. Values above 100 are preserved; only negatives are clamped.
	CPUPercent float64
	// MemoryMB is the container memory usage in MB.
	MemoryMB float64
	// MemoryPercent is memory usage relative to host total, clamped to
	// [0, 100], or 0 when the host total is unknown.
	MemoryPercent float64
}

// ParseResourceUsage extracts CPU and memory consumption from a
// `docker stats` record formatted as cpu|memUsage, for example
// "12.30%|238MiB / 1.9GiB". cores normalizes CPU and totalMB anchors
// the memory percentage.
func ParseResourceUsage(record string, cores, totalMB int) ResourceUsage {
	var usage ResourceUsage
	cpuField, memField, _ := strings.Cut(record, "|")

	if cores < 1 {
		cores = 1
	}
	raw, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(cpuField), "%"), 64)
	if err == nil {
		usage.CPUPercent = round1(raw / float64(cores))
		if usage.CPUPercent < 0 {
			usage.CPUPercent = 0
		}
	}

	if m := memUsageRe.FindStringSubmatch(memField); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			switch m[2] {
			case "KiB", "KB":
				v /= 1024
			case "GiB", "GB":
				v *= 1024
			}
			usage.MemoryMB = round1(v)
			if totalMB > 0 {
				pct := usage.MemoryMB / float64(totalMB) * 100
				usage.MemoryPercent = round1(math.Min(math.Max(pct, 0), 100))
			}
		}
	}

	return usage
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
