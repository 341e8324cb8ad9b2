package config

// Example is a commented starter configuration written by
// 'guardian config init'.
const Example = `# API Rate Guardian configuration
#
# ${VAR} references are replaced with environment variable values at load time.

apis:
  - name: openai-prod
    provider: openai
    api_key: ${OPENAI_API_KEY}
    threshold: 80
    check_interval: 60s

  - name: github
    provider: github
    api_key: ${GITHUB_TOKEN}
    threshold: 85
    check_interval: 120s

  # Any vendor exposing standard rate-limit headers:
  # - name: internal-api
  #   provider: custom
  #   api_key: ${INTERNAL_API_TOKEN}
  #   base_url: https://api.internal.example.com/v1/ping
  #   limit_header: X-RateLimit-Limit
  #   remaining_header: X-RateLimit-Remaining
  #   reset_header: X-RateLimit-Reset

notifications:
  console:
    enabled: true
  telegram:
    enabled: false
    token: ${TELEGRAM_BOT_TOKEN}
    chat_id: "123456789"
  webhook:
    enabled: false
    url: https://example.com/hooks/guardian
    secret: ${WEBHOOK_SECRET}
  slack:
    enabled: false
    webhook_url: ${SLACK_WEBHOOK_URL}
    channel: "#api-alerts"
  email:
    enabled: false
    smtp_host: smtp.example.com
    smtp_port: 587
    username: guardian@example.com
    password: ${SMTP_PASSWORD}
    from_email: guardian@example.com
    to_email: oncall@example.com
  bark:
    enabled: false
    key: ${BARK_DEVICE_KEY}

server:
  enabled: false
  listen: ":9090"

storage:
  # Alert history database; leave empty to disable.
  path: guardian.db

logging:
  level: info
  format: json
`
