// Package mqtt ingests plate scans from ANPR scanners. Each scan is run
// through plate verification; a failed check opens a pending violation
// ticket automatically.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"parkwatch/internal/config"
	"parkwatch/internal/domain"
	"parkwatch/internal/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// PlateScan is the scanner publish payload.
type PlateScan struct {
	Plate  string `json:"plate"`
	Region string `json:"region"`
	LotID  string `json:"lot_id"`
}

// ScannerSubscriber consumes plate scans from the broker.
type ScannerSubscriber struct {
	client           mqtt.Client
	cfg              *config.MQTTConfig
	verifyService    service.VerifyService
	violationService service.ViolationService
	logger           *zap.Logger
}

func NewScannerSubscriber(cfg *config.MQTTConfig, verifyService service.VerifyService, violationService service.ViolationService, logger *zap.Logger) (*ScannerSubscriber, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &ScannerSubscriber{
		client:           client,
		cfg:              cfg,
		verifyService:    verifyService,
		violationService: violationService,
		logger:           logger,
	}, nil
}

// Start subscribes to the scanner topic at QoS 1.
func (s *ScannerSubscriber) Start() error {
	token := s.client.Subscribe(s.cfg.Topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		if err := s.handleScan(context.Background(), msg.Payload()); err != nil {
			s.logger.Warn("plate scan handling failed",
				zap.String("topic", msg.Topic()), zap.Error(err))
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", s.cfg.Topic, token.Error())
	}

	s.logger.Info("subscribed to plate scans", zap.String("topic", s.cfg.Topic))
	return nil
}

func (s *ScannerSubscriber) Stop() {
	s.client.Disconnect(250)
}

func (s *ScannerSubscriber) handleScan(ctx context.Context, payload []byte) error {
	var scan PlateScan
	if err := json.Unmarshal(payload, &scan); err != nil {
		return fmt.Errorf("invalid scan payload: %w", err)
	}
	if scan.Plate == "" || scan.Region == "" || scan.LotID == "" {
		return fmt.Errorf("scan missing plate, region, or lot_id: %w", domain.ErrValidation)
	}

	result, err := s.verifyService.VerifyPlate(ctx, service.VerifyPlateRequest{
		Plate:  scan.Plate,
		Region: scan.Region,
		LotID:  scan.LotID,
	})
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}

	created, err := s.violationService.CreateViolation(ctx, service.CreateViolationRequest{
		Province:     scan.Region,
		LicensePlate: scan.Plate,
		Reason:       result.Reason,
		LotID:        scan.LotID,
	})
	if err != nil {
		return fmt.Errorf("failed to ticket scanned plate: %w", err)
	}

	s.logger.Info("violation ticketed from scan",
		zap.String("plate", scan.Region+"-"+scan.Plate),
		zap.String("lotId", scan.LotID),
		zap.String("ticketId", created.TicketID),
		zap.String("reason", result.Reason))
	return nil
}
