package rpc

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/canopy-network/lphelper/lib"
	"github.com/julienschmidt/httprouter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type resourceUsageResponse struct {
	Process ProcessResourceUsage `json:"process"`
	System  SystemResourceUsage  `json:"system"`
}

type ProcessResourceUsage struct {
	Name          string  `json:"name"`
	CreateTime    string  `json:"createTime"`
	ThreadCount   uint64  `json:"threadCount"`
	MemoryPercent float64 `json:"usedMemoryPercent"`
	CPUPercent    float64 `json:"usedCPUPercent"`
}

type SystemResourceUsage struct {
	TotalRAM        uint64  `json:"totalRAM"`
	AvailableRAM    uint64  `json:"availableRAM"`
	UsedRAMPercent  float64 `json:"usedRAMPercent"`
	UsedCPUPercent  float64 `json:"usedCPUPercent"`
	TotalDisk       uint64  `json:"totalDisk"`
	UsedDisk        uint64  `json:"usedDisk"`
	UsedDiskPercent float64 `json:"usedDiskPercent"`
}

// ResourceUsage responds with the memory, cpu and disk use of the node and its host
func (s *Server) ResourceUsage(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	usage, err := s.resourceUsage()
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	write(w, usage, http.StatusOK)
}

func (s *Server) resourceUsage() (*resourceUsageResponse, error) {
	pm, err := mem.VirtualMemory() // os memory
	if err != nil {
		return nil, err
	}
	cp, err := cpu.Percent(0, false) // os cpu percent
	if err != nil {
		return nil, err
	}
	d, err := disk.Usage(s.config.DataDirPath) // disk holding the data directory
	if err != nil {
		return nil, err
	}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	name, err := p.Name()
	if err != nil {
		return nil, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return nil, err
	}
	numThreads, err := p.NumThreads()
	if err != nil {
		return nil, err
	}
	memPercent, err := p.MemoryPercent()
	if err != nil {
		return nil, err
	}
	created, err := p.CreateTime()
	if err != nil {
		return nil, err
	}
	usage := &resourceUsageResponse{
		Process: ProcessResourceUsage{
			Name:          name,
			CreateTime:    time.UnixMilli(created).Format(time.RFC822),
			ThreadCount:   uint64(numThreads),
			MemoryPercent: float64(memPercent),
			CPUPercent:    cpuPercent,
		},
		System: SystemResourceUsage{
			TotalRAM:        pm.Total,
			AvailableRAM:    pm.Available,
			UsedRAMPercent:  pm.UsedPercent,
			TotalDisk:       d.Total,
			UsedDisk:        d.Used,
			UsedDiskPercent: d.UsedPercent,
		},
	}
	if len(cp) != 0 {
		usage.System.UsedCPUPercent = cp[0]
	}
	return usage, nil
}

// Config responds with the configuration the node runs with
func (s *Server) Config(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, s.config, http.StatusOK)
}

// logsHandler writes the log file, newest line first
func logsHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {

		// Construct the full file path to the log file
		filePath := filepath.Join(s.config.DataDirPath, lib.LogDirectory, lib.LogFileName)

		// Read the entire contents of the log file and split by newlines
		f, _ := os.ReadFile(filePath)
		split := bytes.Split(f, []byte("\n"))

		// Prepare a slice to hold the reversed lines
		var flipped []byte

		// Iterate over the lines in reverse order
		for i := len(split) - 1; i >= 0; i-- {
			// Append each line to the `flipped` slice followed by a newline character
			flipped = append(append(flipped, split[i]...), []byte("\n")...)
		}

		// Write the reversed lines to the HTTP response
		if _, err := w.Write(flipped); err != nil {
			s.logger.Error(err.Error())
		}
	}
}
