package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/skydive-tools/jumptrace"
)

func writeSamplesCSV(path string, samples []jumptrace.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"ts_utc_iso", "elapsed_s", "lat_deg", "lon_deg", "alt_msl_m",
		"vel_n_mps", "vel_e_mps", "vel_d_mps", "h_acc_m", "v_acc_m", "s_acc_mps", "num_sv",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	var start time.Time
	for i, s := range samples {
		if i == 0 {
			start = s.Time
		}
		row := []string{
			s.Time.UTC().Format(time.RFC3339Nano),
			formatFloat(s.Time.Sub(start).Seconds()),
			formatFloat(s.Lat),
			formatFloat(s.Lon),
			formatFloat(s.AltitudeMSL),
			formatFloat(s.VelN),
			formatFloat(s.VelE),
			formatFloat(s.VelD),
			formatFloat(s.HAcc),
			formatFloat(s.VAcc),
			formatFloat(s.SAcc),
			strconv.Itoa(s.NumSV),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type sampleParquetRow struct {
	TSUTCISO string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ElapsedS float64 `parquet:"name=elapsed_s, type=DOUBLE"`
	LatDeg   float64 `parquet:"name=lat_deg, type=DOUBLE"`
	LonDeg   float64 `parquet:"name=lon_deg, type=DOUBLE"`
	AltMSLM  float64 `parquet:"name=alt_msl_m, type=DOUBLE"`
	VelNMps  float64 `parquet:"name=vel_n_mps, type=DOUBLE"`
	VelEMps  float64 `parquet:"name=vel_e_mps, type=DOUBLE"`
	VelDMps  float64 `parquet:"name=vel_d_mps, type=DOUBLE"`
	HAccM    float64 `parquet:"name=h_acc_m, type=DOUBLE"`
	VAccM    float64 `parquet:"name=v_acc_m, type=DOUBLE"`
	SAccMps  float64 `parquet:"name=s_acc_mps, type=DOUBLE"`
	NumSV    int32   `parquet:"name=num_sv, type=INT32"`
}

func writeSamplesParquet(path string, samples []jumptrace.Sample) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(sampleParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	var start time.Time
	for i, s := range samples {
		if i == 0 {
			start = s.Time
		}
		row := sampleParquetRow{
			TSUTCISO: s.Time.UTC().Format(time.RFC3339Nano),
			ElapsedS: s.Time.Sub(start).Seconds(),
			LatDeg:   s.Lat,
			LonDeg:   s.Lon,
			AltMSLM:  s.AltitudeMSL,
			VelNMps:  s.VelN,
			VelEMps:  s.VelE,
			VelDMps:  s.VelD,
			HAccM:    s.HAcc,
			VAccM:    s.VAcc,
			SAccMps:  s.SAcc,
			NumSV:    int32(s.NumSV),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
