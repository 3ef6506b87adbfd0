package app

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/1ureka/1ureka.net.gbn/internal/arq"
	"github.com/1ureka/1ureka.net.gbn/internal/stats"
	"github.com/1ureka/1ureka.net.gbn/internal/util"
)

func clientReport(col *stats.Collector, sender *arq.Sender) (pterm.TableData, error) {
	s, err := col.Summary()
	if err != nil {
		return nil, err
	}
	return pterm.TableData{
		{"Metric", "Value"},
		{"Units acknowledged", fmt.Sprintf("%d / %d", sender.Base()-1, s.Units)},
		{"Transmissions", fmt.Sprint(s.Attempts)},
		{"Retransmissions", fmt.Sprint(sender.Retransmits())},
		{"Loss rate", fmt.Sprintf("%.2f%%", s.LossRate)},
		{"Min RTT", fmt.Sprintf("%.2f ms", s.MinRTT)},
		{"Max RTT", fmt.Sprintf("%.2f ms", s.MaxRTT)},
		{"Mean RTT", fmt.Sprintf("%.2f ms", s.MeanRTT)},
		{"RTT std dev", fmt.Sprintf("%.2f ms", s.StdDev)},
	}, nil
}

func printClientReport(col *stats.Collector, sender *arq.Sender) {
	data, err := clientReport(col, sender)
	if errors.Is(err, stats.ErrNoSamples) {
		util.LogInfo("%v", err)
		return
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		util.LogError("failed to render summary: %v", err)
	}
}

func serverReport(server *arq.Server) pterm.TableData {
	return pterm.TableData{
		{"Metric", "Value"},
		{"Units delivered", fmt.Sprint(server.Delivered())},
		{"Data packets seen", fmt.Sprint(server.Seen())},
		{"Dropped by simulator", fmt.Sprint(server.Dropped())},
		{"Last cumulative ACK", fmt.Sprint(server.Receiver().LastAck())},
	}
}

func printServerReport(server *arq.Server) {
	if err := pterm.DefaultTable.WithHasHeader().WithData(serverReport(server)).Render(); err != nil {
		util.LogError("failed to render summary: %v", err)
	}
}
