package eventcore

// binding tracks one handler a Component contributed to its current
// parent's index, plus the last bucket key it was registered under.
// Removal on detach strips the handler from every bucket and the global
// set, so a handler listening on several channels leaves no residue.
type binding struct {
	handler *Handler
	key     string
}

// Component is a Manager that additionally knows how to contribute its own
// handlers to a parent Manager's index. It self-attaches at construction
// so an unattached component still has a working local bus (Push/Send
// against itself as root).
type Component struct {
	*Manager

	name     string
	channel  string
	bindings []*binding

	// impl is the concrete value passed to NewComponent, consulted for the
	// optional Registered/Unregistered lifecycle hooks.
	impl any
}

// ComponentOption configures a Component at construction.
type ComponentOption func(*Component)

// WithChannel sets the component's own channel, used as the default
// target prefix for its handlers when it attaches to a parent.
func WithChannel(channel string) ComponentOption {
	return func(c *Component) { c.channel = channel }
}

// NewComponent builds a component named name, owning handlers, and
// self-attaches it. impl is the value exposing optional Registered()/
// Unregistered() hooks; pass the component itself once embedded in a
// concrete type, or nil if there is no concrete wrapper.
func NewComponent(name string, impl any, handlers []*Handler, opts ...ComponentOption) *Component {
	c := &Component{
		Manager: NewManager(WithManagerName(name)),
		name:    name,
		impl:    impl,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, h := range handlers {
		c.bindings = append(c.bindings, &binding{handler: h})
	}
	if c.impl == nil {
		c.impl = c
	}
	// Self-attach: an unattached component is its own root with its
	// handlers live in its own index, per §4.4.
	for _, b := range c.bindings {
		for _, ch := range b.handler.channelsOrGlobal() {
			key := ch
			if c.channel != "" {
				target := b.handler.Target
				if target == "" {
					target = c.channel
				}
				key = target + ":" + ch
			}
			_ = c.Manager.Add(b.handler, key)
			b.key = key
		}
	}
	return c
}

// Name returns the component's name.
func (c *Component) Name() string { return c.name }

// Channel returns the component's own channel, or "" if unset.
func (c *Component) Channel() string { return c.channel }

// Register attaches c to parent: c's handlers move into parent's root
// index, c's back-reference becomes parent's root, and c joins that
// root's component set. If c already has bindings registered against
// itself (the self-attach at construction), those are removed first.
func (c *Component) Register(parent *Manager) error {
	if c.Root() == c.Manager {
		for _, b := range c.bindings {
			c.Manager.Remove(b.handler, "")
			b.key = ""
		}
	}
	return parent.Attach(c)
}

// Unregister detaches c from its current parent and re-attaches it to
// itself, so it keeps a working local bus afterward.
func (c *Component) Unregister() error {
	root := c.Root()
	if root == c.Manager {
		return ErrNotRegistered
	}
	if err := root.Detach(c); err != nil {
		return err
	}
	for _, b := range c.bindings {
		for _, ch := range b.handler.channelsOrGlobal() {
			key := ch
			if c.channel != "" {
				target := b.handler.Target
				if target == "" {
					target = c.channel
				}
				key = target + ":" + ch
			}
			_ = c.Manager.Add(b.handler, key)
			b.key = key
		}
	}
	return nil
}
