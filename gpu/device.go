package gpu

import (
	"fmt"
	"sort"

	"github.com/Gustav-Simonsson/go-opencl/cl"
)

// selectDevice enumerates every (platform, device) pair and picks the one
// with the highest device-type rank; GPU types rank above CPU types, so a
// discrete GPU wins whenever one is present. Platforms that fail to
// enumerate are skipped, the same as an empty platform.
func selectDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil, fmt.Errorf("OpenCL: failed to list platforms: %w", err)
	}

	var devices []*cl.Device
	for _, p := range platforms {
		ds, err := p.GetDevices(cl.DeviceTypeAll)
		if err != nil {
			continue
		}
		devices = append(devices, ds...)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("OpenCL: failed to find any OpenCL devices")
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Type() > devices[j].Type()
	})
	return devices[0], nil
}
