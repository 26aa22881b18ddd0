// geoctl queries the configured geocoding providers from a terminal. It uses
// the same configuration surface as the server, so a key-less environment can
// still exercise every operation through the Nominatim or mock providers.
//
//	geoctl search -keyword 天安门 [-city 北京]
//	geoctl nearby -lat 39.9042 -lon 116.4074 [-radius 1000]
//	geoctl reverse -lat 39.9042 -lon 116.4074
//	geoctl ip
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"placery/pkg/env"
	"placery/pkg/locator"
	"placery/pkg/logger"
	"placery/pkg/place"
	"placery/pkg/whttp"
)

func main() {
	logger.InitGlobalSlog("geoctl")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	svc := locator.NewService(env.LoadMapConfig(), whttp.NewLoggingClient())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "search":
		err = runSearch(ctx, svc, os.Args[2:])
	case "nearby":
		err = runNearby(ctx, svc, os.Args[2:])
	case "reverse":
		err = runReverse(ctx, svc, os.Args[2:])
	case "ip":
		err = runIP(ctx, svc)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "geoctl: %s\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: geoctl <search|nearby|reverse|ip> [flags]")
}

func runSearch(ctx context.Context, svc *locator.Service, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	keyword := fs.String("keyword", "", "free-text search keyword (required)")
	city := fs.String("city", "", "restrict the search to a city")
	pageSize := fs.Int("n", 10, "maximum number of results")
	_ = fs.Parse(args)

	locations, err := svc.SearchLocation(ctx, *keyword, *city, *pageSize)
	if err != nil {
		return err
	}

	renderLocations(locations)
	return nil
}

func runNearby(ctx context.Context, svc *locator.Service, args []string) error {
	fs := flag.NewFlagSet("nearby", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "latitude in decimal degrees")
	lon := fs.Float64("lon", 0, "longitude in decimal degrees")
	keywords := fs.String("keywords", "", "filter nearby places by keyword")
	radius := fs.Int("radius", 1000, "search radius in meters")
	pageSize := fs.Int("n", 10, "maximum number of results")
	_ = fs.Parse(args)

	locations, err := svc.SearchNearby(ctx, *lat, *lon, *keywords, *radius, *pageSize)
	if err != nil {
		return err
	}

	renderLocations(locations)
	return nil
}

func runReverse(ctx context.Context, svc *locator.Service, args []string) error {
	fs := flag.NewFlagSet("reverse", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "latitude in decimal degrees")
	lon := fs.Float64("lon", 0, "longitude in decimal degrees")
	_ = fs.Parse(args)

	result, err := svc.ReverseGeocode(ctx, *lat, *lon)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Address", result.FormattedAddress})
	table.Append([]string{"Province", result.Province})
	table.Append([]string{"City", result.City})
	table.Append([]string{"District", result.District})
	table.Append([]string{"Street", result.Street})
	table.Append([]string{"POI", result.POIName})
	table.Append([]string{"Distance", result.Distance})
	table.Render()
	return nil
}

func runIP(ctx context.Context, svc *locator.Service) error {
	renderLocations([]place.LocationInfo{svc.IPLocation(ctx)})
	return nil
}

func renderLocations(locations []place.LocationInfo) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Address", "Lat", "Lon", "Distance"})
	for _, l := range locations {
		table.Append([]string{
			l.Name,
			l.FormattedAddress,
			fmt.Sprintf("%.6f", l.Latitude),
			fmt.Sprintf("%.6f", l.Longitude),
			l.Distance,
		})
	}
	table.Render()
}
