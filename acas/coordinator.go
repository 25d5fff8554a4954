package acas

import "log/slog"

// Coordinator routes ECMs to the smart card on the demuxer's behalf,
// per spec.md §4.7. It logs and suppresses ECM and init failures rather
// than propagating them: a broadcast continues with scrambled streams
// reported as not-yet-decodable. It holds no lock; calls reach the card
// in whatever order its callers make them, so a card shared between
// several coordinators is not protected from concurrent use.
type Coordinator struct {
	card Card
	log  *slog.Logger
}

// NewCoordinator wraps card. If log is nil, slog.Default() is used.
func NewCoordinator(card Card, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{card: card, log: log.With("component", "acas")}
}

// Init performs the card's init/connect sequence. Failures are logged
// and suppressed, matching the reference implementation's try/catch
// around smartCard->initCard()/connect().
func (c *Coordinator) Init() {
	if err := c.card.InitCard(); err != nil {
		c.log.Error("card init failed", "error", err)
		return
	}
	if err := c.card.Connect(); err != nil {
		c.log.Error("card connect failed", "error", err)
	}
}

// SubmitECM forwards an ECM table's payload to the card. Failure is
// logged and suppressed.
func (c *Coordinator) SubmitECM(ecm []byte) {
	if err := c.card.DecryptECM(ecm); err != nil {
		c.log.Warn("ECM decrypt failed", "error", err)
	}
}

// Ready reports whether the card has key material installed.
func (c *Coordinator) Ready() bool { return c.card.Ready() }

// Decrypt applies the card's currently installed key to payload in
// place.
func (c *Coordinator) Decrypt(payload []byte, flag EncryptionFlag) error {
	return c.card.Decrypt(payload, flag)
}

// Clear resets the card to its unconnected, unkeyed state.
func (c *Coordinator) Clear() {
	c.card.Clear()
}
