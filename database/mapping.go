package database

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

type mapperPart struct {
	Device     string `yaml:"device"`
	Package    string `yaml:"package"`
	Speedgrade string `yaml:"speedgrade"`
}

type mapperDevice struct {
	Fabric string `yaml:"fabric"`
}

// ParsePartsInfos combines mapping/parts.yaml and mapping/devices.yaml into
// a part-name to PartInfo map.
func ParsePartsInfos(partsYAML, devicesYAML []byte) (map[string]PartInfo, error) {
	devices := map[string]mapperDevice{}
	if err := yaml.Unmarshal(devicesYAML, &devices); err != nil {
		return nil, fmt.Errorf("devices yaml: %w", err)
	}
	fabrics := make(map[string]string, len(devices))
	for device, props := range devices {
		if props.Fabric == "" {
			return nil, fmt.Errorf("device %q doesn't contain fabric", device)
		}
		fabrics[device] = props.Fabric
	}

	parts := map[string]mapperPart{}
	if err := yaml.Unmarshal(partsYAML, &parts); err != nil {
		return nil, fmt.Errorf("parts yaml: %w", err)
	}
	partsInfos := make(map[string]PartInfo, len(parts))
	for part, props := range parts {
		if props.Device == "" || props.Package == "" || props.Speedgrade == "" {
			return nil, fmt.Errorf("part %q missing one of device/package/speedgrade", part)
		}
		fabric, ok := fabrics[props.Device]
		if !ok {
			return nil, fmt.Errorf("could not find fabric for device %q", props.Device)
		}
		partsInfos[part] = PartInfo{
			Device:     props.Device,
			Fabric:     fabric,
			Package:    props.Package,
			Speedgrade: props.Speedgrade,
		}
	}
	return partsInfos, nil
}
